// Package seeder resets the booking database and fills it either from a SQL
// dump or from a fixed set of illustrative rows.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hetulpatel/Randex/internal/domain"
	"github.com/hetulpatel/Randex/internal/logging"
	"github.com/hetulpatel/Randex/internal/storage/sqlite"
)

// Manager owns the reset/load/seed steps. Zero fields fall back to
// BcryptHasher, PreferCLI("sqlite3") and time.Now.
type Manager struct {
	Hasher   Hasher
	Executor ScriptExecutor
	Now      func() time.Time
}

// Options mirror the randex_db command line.
type Options struct {
	DBPath    string
	DumpPath  string
	WithDummy bool
}

// Report summarizes a Run.
type Report struct {
	DumpLoaded bool
	Seeded     bool
	Counts     map[string]int
}

func (m *Manager) hasher() Hasher {
	if m.Hasher != nil {
		return m.Hasher
	}
	return BcryptHasher{Cost: DefaultBcryptCost}
}

func (m *Manager) executor() ScriptExecutor {
	if m.Executor != nil {
		return m.Executor
	}
	return PreferCLI("sqlite3")
}

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Reset destroys the database at path and leaves an empty one.
func (m *Manager) Reset(path string) error {
	return sqlite.Reset(path)
}

// LoadDump replays dumpPath into dbPath. A missing dump fails with
// domain.ErrNotFound before the database is touched.
func (m *Manager) LoadDump(ctx context.Context, dbPath, dumpPath string) error {
	info, err := os.Stat(dumpPath)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: sql dump %s", domain.ErrNotFound, dumpPath)
	}
	if err != nil {
		return fmt.Errorf("%w: stat %s: %w", domain.ErrIO, dumpPath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: sql dump %s is a directory", domain.ErrInvalid, dumpPath)
	}
	if err := m.executor().Execute(ctx, dbPath, dumpPath); err != nil {
		if errors.Is(err, domain.ErrExecution) || errors.Is(err, domain.ErrIO) {
			return fmt.Errorf("load dump %s: %w", dumpPath, err)
		}
		return fmt.Errorf("load dump %s: %w: %w", dumpPath, domain.ErrExecution, err)
	}
	return nil
}

// Seed creates the schema if needed and inserts the illustrative rows in one
// transaction. The password hash is derived first, so a hasher failure leaves
// the database untouched.
func (m *Manager) Seed(ctx context.Context, dbPath string) error {
	hash, err := m.hasher().Hash(ctx, DevPassword)
	if err != nil {
		return fmt.Errorf("hash dev password: %w", err)
	}
	if hash == "" {
		return fmt.Errorf("hash dev password: %w: empty hash", domain.ErrExecution)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", domain.ErrIO, dbPath, err)
	}
	defer store.Close()

	if err := store.CreateTables(ctx); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	seedDay := m.now().UTC()
	return store.InTx(ctx, func(tx *sqlite.Store) error {
		return insertFixtures(ctx, tx, hash, seedDay)
	})
}

// Run performs reset, then the optional dump load, then the optional seed.
// The first failure stops the run; earlier steps are not undone.
func (m *Manager) Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.DBPath == "" {
		return nil, fmt.Errorf("%w: database path is required", domain.ErrInvalid)
	}
	report := &Report{}

	logging.Infof("[randex-db] resetting %s", opts.DBPath)
	if err := m.Reset(opts.DBPath); err != nil {
		return report, fmt.Errorf("reset %s: %w", opts.DBPath, err)
	}
	if opts.DumpPath != "" {
		logging.Infof("[randex-db] loading dump %s", opts.DumpPath)
		if err := m.LoadDump(ctx, opts.DBPath, opts.DumpPath); err != nil {
			return report, err
		}
		report.DumpLoaded = true
	}
	if opts.WithDummy {
		logging.Infof("[randex-db] seeding illustrative data")
		if err := m.Seed(ctx, opts.DBPath); err != nil {
			return report, fmt.Errorf("seed %s: %w", opts.DBPath, err)
		}
		report.Seeded = true
	}

	store, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return report, fmt.Errorf("%w: open %s: %w", domain.ErrIO, opts.DBPath, err)
	}
	defer store.Close()
	counts, err := store.TableCounts(ctx)
	if err != nil {
		return report, fmt.Errorf("count rows: %w", err)
	}
	report.Counts = counts
	return report, nil
}

func insertFixtures(ctx context.Context, store *sqlite.Store, hash string, seedDay time.Time) error {
	userIDs := make([]int64, len(users))
	for i, f := range users {
		u := domain.User{Email: f.Email, Password: hash, Name: f.Name, Phone: f.Phone, Role: f.Role}
		if err := store.CreateUser(ctx, &u); err != nil {
			return err
		}
		userIDs[i] = u.ID
	}

	businessIDs := make([]int64, len(businesses))
	for i, f := range businesses {
		b := domain.Business{
			OwnerID: ref(userIDs, f.Owner), Name: f.Name, Type: f.Type, Description: f.Description,
			City: f.City, District: f.District, Address: f.Address, Phone: f.Phone,
			OpeningTime: f.Opening, ClosingTime: f.Closing,
		}
		if err := store.CreateBusiness(ctx, &b); err != nil {
			return err
		}
		businessIDs[i] = b.ID
	}

	serviceIDs := make([]int64, len(services))
	for i, f := range services {
		svc := domain.Service{
			BusinessID: ref(businessIDs, f.Business), Name: f.Name, Description: f.Description,
			Price: f.Price, Duration: f.Duration,
		}
		if err := store.CreateService(ctx, &svc); err != nil {
			return err
		}
		serviceIDs[i] = svc.ID
	}

	staffIDs := make([]int64, len(staff))
	for i, f := range staff {
		st := domain.Staff{BusinessID: ref(businessIDs, f.Business), Name: f.Name}
		if err := store.CreateStaff(ctx, &st); err != nil {
			return err
		}
		staffIDs[i] = st.ID
	}
	for _, link := range staffServices {
		if err := store.LinkStaffService(ctx, ref(staffIDs, link[0]), ref(serviceIDs, link[1])); err != nil {
			return err
		}
	}

	for _, f := range settings {
		set := domain.BusinessSettings{
			BusinessID:          ref(businessIDs, f.Business),
			SlotIntervalMinutes: f.SlotInterval,
			MinNoticeMinutes:    f.MinNotice,
			BookingWindowDays:   f.BookingWindow,
		}
		if err := store.UpsertSettings(ctx, set); err != nil {
			return err
		}
	}

	for _, f := range appointments {
		customerID := ref(userIDs, f.Customer)
		staffID := ref(staffIDs, f.Staff)
		a := domain.Appointment{
			BusinessID:      ref(businessIDs, f.Business),
			ServiceID:       ref(serviceIDs, f.Service),
			CustomerID:      &customerID,
			AppointmentDate: domain.FormatDate(seedDay.AddDate(0, 0, f.DayOffset)),
			AppointmentTime: f.Time,
			StaffID:         &staffID,
			Status:          f.Status,
			CustomerName:    f.Name,
			CustomerPhone:   f.Phone,
			Source:          f.Source,
			Notes:           f.Notes,
		}
		if err := store.CreateAppointment(ctx, &a); err != nil {
			return err
		}
	}

	for _, f := range reviews {
		r := domain.Review{
			BusinessID: ref(businessIDs, f.Business),
			CustomerID: ref(userIDs, f.Customer),
			Rating:     f.Rating,
			Comment:    f.Comment,
		}
		if err := store.CreateReview(ctx, &r); err != nil {
			return err
		}
	}

	for _, f := range favorites {
		if _, err := store.AddFavorite(ctx, ref(userIDs, f.Customer), ref(businessIDs, f.Business)); err != nil {
			return err
		}
	}
	return nil
}

func ref(ids []int64, pos int) int64 {
	return ids[pos-1]
}
