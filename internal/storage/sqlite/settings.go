package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hetulpatel/Randex/internal/domain"
)

// UpsertSettings inserts or replaces the settings row for a business.
func (s *Store) UpsertSettings(ctx context.Context, set domain.BusinessSettings) error {
	if err := set.Validate(); err != nil {
		return err
	}
	_, err := s.q.ExecContext(ctx, `
INSERT INTO business_settings (business_id, slot_interval_minutes, min_notice_minutes, booking_window_days)
VALUES (?, ?, ?, ?)
ON CONFLICT(business_id) DO UPDATE SET
	slot_interval_minutes=excluded.slot_interval_minutes,
	min_notice_minutes=excluded.min_notice_minutes,
	booking_window_days=excluded.booking_window_days;`,
		set.BusinessID, set.SlotIntervalMinutes, set.MinNoticeMinutes, set.BookingWindowDays,
	)
	if err != nil {
		return fmt.Errorf("upsert settings for business %d: %w", set.BusinessID, classify(err))
	}
	return nil
}

// GetSettings returns the stored settings, or the defaults when the business
// has none. Unusable stored values fall back to their defaults.
func (s *Store) GetSettings(ctx context.Context, businessID int64) (domain.BusinessSettings, error) {
	def := domain.DefaultSettings(businessID)
	set := domain.BusinessSettings{BusinessID: businessID}
	err := s.q.QueryRowContext(ctx, `
SELECT COALESCE(slot_interval_minutes, ?), COALESCE(min_notice_minutes, ?), COALESCE(booking_window_days, ?)
FROM business_settings WHERE business_id = ?`,
		def.SlotIntervalMinutes, def.MinNoticeMinutes, def.BookingWindowDays, businessID,
	).Scan(&set.SlotIntervalMinutes, &set.MinNoticeMinutes, &set.BookingWindowDays)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return domain.BusinessSettings{}, fmt.Errorf("get settings for business %d: %w", businessID, err)
	}
	return set.OrDefaults(), nil
}
