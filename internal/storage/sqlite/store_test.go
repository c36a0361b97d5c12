package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hetulpatel/Randex/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "randex.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.CreateTables(context.Background()); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return store
}

type fixture struct {
	owner    domain.User
	customer domain.User
	business domain.Business
	haircut  domain.Service
	blowdry  domain.Service
}

func seedFixture(t *testing.T, store *Store) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		owner:    domain.User{Email: "owner@example.com", Password: "x", Name: "Owner", Role: domain.RoleBusinessOwner},
		customer: domain.User{Email: "cust@example.com", Password: "x", Name: "Müşteri", Phone: "05000000003", Role: domain.RoleCustomer},
	}
	for _, u := range []*domain.User{&f.owner, &f.customer} {
		if err := store.CreateUser(ctx, u); err != nil {
			t.Fatalf("create user: %v", err)
		}
	}
	f.business = domain.Business{OwnerID: f.owner.ID, Name: "Parla Kuaför", Type: "kuafor", City: "İstanbul", OpeningTime: "09:00", ClosingTime: "20:00"}
	if err := store.CreateBusiness(ctx, &f.business); err != nil {
		t.Fatalf("create business: %v", err)
	}
	f.haircut = domain.Service{BusinessID: f.business.ID, Name: "Saç Kesim", Price: 250, Duration: 45}
	f.blowdry = domain.Service{BusinessID: f.business.ID, Name: "Fön", Price: 150, Duration: 30}
	for _, svc := range []*domain.Service{&f.haircut, &f.blowdry} {
		if err := store.CreateService(ctx, svc); err != nil {
			t.Fatalf("create service: %v", err)
		}
	}
	return f
}

func TestCreateTablesIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	if err := store.CreateTables(ctx); err != nil {
		t.Fatalf("second create: %v", err)
	}
	counts, err := store.TableCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != len(Tables) {
		t.Fatalf("expected %d tables, got %d (%v)", len(Tables), len(counts), counts)
	}
	for table, n := range counts {
		if n != 0 {
			t.Fatalf("expected empty %s, got %d rows", table, n)
		}
	}
}

func TestDropAndClearTables(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFixture(t, store)

	if err := store.ClearTables(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	counts, _ := store.TableCounts(ctx)
	if counts["users"] != 0 || counts["services"] != 0 {
		t.Fatalf("expected cleared tables, got %v", counts)
	}
	// ids restart after a clear
	f := seedFixture(t, store)
	if f.owner.ID != 1 {
		t.Fatalf("expected owner id 1 after clear, got %d", f.owner.ID)
	}

	if err := store.DropTables(ctx); err != nil {
		t.Fatalf("drop: %v", err)
	}
	counts, err := store.TableCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected no tables, got %v", counts)
	}
}

func TestResetRemovesExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "randex.db")
	if err := Reset(path); err != nil {
		t.Fatalf("reset on missing path: %v", err)
	}
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := store.CreateTables(ctx); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	seedFixture(t, store)
	store.Close()

	if err := Reset(path); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected database file after reset: %v", err)
	}
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	counts, err := store.TableCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if len(counts) != 0 {
		t.Fatalf("expected empty database after reset, got %v", counts)
	}
}

func TestResetRequiresPath(t *testing.T) {
	if err := Reset("  "); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestUserEmailUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	u := domain.User{Email: "a@example.com", Password: "x", Name: "A", Role: domain.RoleCustomer}
	if err := store.CreateUser(ctx, &u); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := u
	dup.ID = 0
	if err := store.CreateUser(ctx, &dup); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	got, err := store.GetUserByEmail(ctx, "a@example.com")
	if err != nil || got.ID != u.ID || got.Role != domain.RoleCustomer {
		t.Fatalf("unexpected user %+v err=%v", got, err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be populated")
	}
	if _, err := store.GetUser(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRoleCheckConstraint(t *testing.T) {
	store := newTestStore(t)
	_, err := store.q.ExecContext(context.Background(),
		`INSERT INTO users (email, password, name, role) VALUES ('x@example.com', 'x', 'X', 'admin')`)
	if !errors.Is(classify(err), domain.ErrInvalid) {
		t.Fatalf("expected CHECK violation, got %v", err)
	}
}

func TestCreateBusinessRequiresOwnerRole(t *testing.T) {
	store := newTestStore(t)
	f := seedFixture(t, store)
	b := domain.Business{OwnerID: f.customer.ID, Name: "X", Type: "kuafor"}
	if err := store.CreateBusiness(context.Background(), &b); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSearchBusinesses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)
	other := domain.Business{OwnerID: f.owner.ID, Name: "Nar Güzellik", Type: "guzellik", City: "İzmir", Description: "Güzellik Merkezi"}
	if err := store.CreateBusiness(ctx, &other); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateReview(ctx, &domain.Review{BusinessID: other.ID, CustomerID: f.customer.ID, Rating: 4}); err != nil {
		t.Fatalf("review: %v", err)
	}

	got, err := store.SearchBusinesses(ctx, BusinessFilter{City: "İzmir"})
	if err != nil || len(got) != 1 || got[0].ID != other.ID {
		t.Fatalf("city filter: %+v err=%v", got, err)
	}
	if got[0].ReviewCount != 1 || got[0].AverageRating != 4 {
		t.Fatalf("unexpected aggregate %+v", got[0])
	}

	got, err = store.SearchBusinesses(ctx, BusinessFilter{Search: "Merkez"})
	if err != nil || len(got) != 1 {
		t.Fatalf("search: %+v err=%v", got, err)
	}

	got, err = store.SearchBusinesses(ctx, BusinessFilter{MinRating: 3, Sort: "rating"})
	if err != nil || len(got) != 1 || got[0].ID != other.ID {
		t.Fatalf("min rating: %+v err=%v", got, err)
	}

	if _, err := store.SearchBusinesses(ctx, BusinessFilter{Sort: "price"}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for sort, got %v", err)
	}
}

func TestDeleteBusinessCascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)

	st := domain.Staff{BusinessID: f.business.ID, Name: "Ahmet"}
	if err := store.CreateStaff(ctx, &st); err != nil {
		t.Fatalf("staff: %v", err)
	}
	if err := store.LinkStaffService(ctx, st.ID, f.haircut.ID); err != nil {
		t.Fatalf("link: %v", err)
	}
	if err := store.UpsertSettings(ctx, domain.BusinessSettings{BusinessID: f.business.ID, SlotIntervalMinutes: 15, MinNoticeMinutes: 60, BookingWindowDays: 30}); err != nil {
		t.Fatalf("settings: %v", err)
	}
	cust := f.customer.ID
	appt := domain.Appointment{BusinessID: f.business.ID, ServiceID: f.haircut.ID, CustomerID: &cust, AppointmentDate: "2026-01-02", AppointmentTime: "10:00"}
	if err := store.CreateAppointment(ctx, &appt); err != nil {
		t.Fatalf("appointment: %v", err)
	}
	if err := store.CreateReview(ctx, &domain.Review{BusinessID: f.business.ID, CustomerID: cust, Rating: 5}); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := store.AddFavorite(ctx, cust, f.business.ID); err != nil {
		t.Fatalf("favorite: %v", err)
	}

	if err := store.DeleteBusiness(ctx, f.business.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	counts, err := store.TableCounts(ctx)
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	for _, table := range []string{"businesses", "services", "staff", "staff_services", "business_settings", "appointments", "reviews", "favorites"} {
		if counts[table] != 0 {
			t.Fatalf("expected %s empty after delete, got %d", table, counts[table])
		}
	}
	if counts["users"] != 2 {
		t.Fatalf("users must survive, got %d", counts["users"])
	}
	if err := store.DeleteBusiness(ctx, f.business.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteServiceWithAppointments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)
	appt := domain.Appointment{BusinessID: f.business.ID, ServiceID: f.haircut.ID, AppointmentDate: "2026-01-02", AppointmentTime: "10:00", CustomerName: "Walk in", CustomerPhone: "1"}
	if err := store.CreateAppointment(ctx, &appt); err != nil {
		t.Fatalf("appointment: %v", err)
	}
	if err := store.DeleteService(ctx, f.haircut.ID); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := store.DeleteService(ctx, f.blowdry.ID); err != nil {
		t.Fatalf("delete unused service: %v", err)
	}
	svcs, err := store.ListServicesByBusiness(ctx, f.business.ID)
	if err != nil || len(svcs) != 1 || svcs[0].ID != f.haircut.ID {
		t.Fatalf("unexpected services %+v err=%v", svcs, err)
	}
}

func TestStaffServices(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)

	generalist := domain.Staff{BusinessID: f.business.ID, Name: "Ahmet"}
	specialist := domain.Staff{BusinessID: f.business.ID, Name: "Ayşe"}
	for _, st := range []*domain.Staff{&generalist, &specialist} {
		if err := store.CreateStaff(ctx, st); err != nil {
			t.Fatalf("staff: %v", err)
		}
	}
	if err := store.SetStaffServices(ctx, generalist.ID, []int64{f.blowdry.ID, f.haircut.ID, f.haircut.ID}); err != nil {
		t.Fatalf("set services: %v", err)
	}
	if err := store.SetStaffServices(ctx, specialist.ID, []int64{f.haircut.ID}); err != nil {
		t.Fatalf("set services: %v", err)
	}
	ids, err := store.ListStaffServiceIDs(ctx, generalist.ID)
	if err != nil || len(ids) != 2 || ids[0] != f.haircut.ID {
		t.Fatalf("unexpected ids %v err=%v", ids, err)
	}

	eligible, err := store.EligibleStaff(ctx, f.business.ID, f.haircut.ID)
	if err != nil || len(eligible) != 2 {
		t.Fatalf("eligible: %+v err=%v", eligible, err)
	}
	if eligible[0].ID != specialist.ID {
		t.Fatalf("expected specialist first, got %+v", eligible)
	}

	if err := store.SetStaffActive(ctx, specialist.ID, false); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	eligible, _ = store.EligibleStaff(ctx, f.business.ID, f.haircut.ID)
	if len(eligible) != 1 || eligible[0].ID != generalist.ID {
		t.Fatalf("inactive staff must not be eligible: %+v", eligible)
	}

	// services of another business are rejected and leave the set untouched
	otherBiz := domain.Business{OwnerID: f.owner.ID, Name: "Other", Type: "dovmeci"}
	if err := store.CreateBusiness(ctx, &otherBiz); err != nil {
		t.Fatalf("business: %v", err)
	}
	foreign := domain.Service{BusinessID: otherBiz.ID, Name: "Dövme", Price: 10, Duration: 60}
	if err := store.CreateService(ctx, &foreign); err != nil {
		t.Fatalf("service: %v", err)
	}
	if err := store.SetStaffServices(ctx, generalist.ID, []int64{foreign.ID}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if err := store.LinkStaffService(ctx, generalist.ID, foreign.ID); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid from link, got %v", err)
	}
	ids, _ = store.ListStaffServiceIDs(ctx, generalist.ID)
	if len(ids) != 2 {
		t.Fatalf("expected set untouched, got %v", ids)
	}

	if err := store.SetStaffServices(ctx, generalist.ID, nil); err != nil {
		t.Fatalf("clear services: %v", err)
	}
	ids, _ = store.ListStaffServiceIDs(ctx, generalist.ID)
	if len(ids) != 0 {
		t.Fatalf("expected empty set, got %v", ids)
	}
}

func TestSettingsDefaultsAndUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)

	got, err := store.GetSettings(ctx, f.business.ID)
	if err != nil || got != domain.DefaultSettings(f.business.ID) {
		t.Fatalf("expected defaults, got %+v err=%v", got, err)
	}
	want := domain.BusinessSettings{BusinessID: f.business.ID, SlotIntervalMinutes: 20, MinNoticeMinutes: 120, BookingWindowDays: 45}
	for i := 0; i < 2; i++ {
		if err := store.UpsertSettings(ctx, want); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	got, err = store.GetSettings(ctx, f.business.ID)
	if err != nil || got != want {
		t.Fatalf("expected %+v, got %+v err=%v", want, got, err)
	}
}

func TestAppointmentsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)
	st := domain.Staff{BusinessID: f.business.ID, Name: "Ahmet"}
	if err := store.CreateStaff(ctx, &st); err != nil {
		t.Fatalf("staff: %v", err)
	}
	cust := f.customer.ID
	staffID := st.ID
	booked := domain.Appointment{
		BusinessID: f.business.ID, ServiceID: f.haircut.ID, CustomerID: &cust,
		AppointmentDate: "2026-03-14", AppointmentTime: "10:00", StartTime: "10:00", EndTime: "10:45",
		StaffID: &staffID, Status: domain.StatusConfirmed,
	}
	legacy := domain.Appointment{
		BusinessID: f.business.ID, ServiceID: f.blowdry.ID,
		AppointmentDate: "2026-03-14", AppointmentTime: "12:00", StaffID: &staffID,
		CustomerName: "Walk in", CustomerPhone: "0500", Source: domain.SourceOwnerManual,
	}
	cancelled := domain.Appointment{
		BusinessID: f.business.ID, ServiceID: f.blowdry.ID, CustomerID: &cust,
		AppointmentDate: "2026-03-14", AppointmentTime: "15:00", StaffID: &staffID, Status: domain.StatusCancelled,
	}
	for _, a := range []*domain.Appointment{&booked, &legacy, &cancelled} {
		if err := store.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("create appointment: %v", err)
		}
	}

	got, err := store.GetAppointment(ctx, legacy.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerID != nil || got.StaffID == nil || *got.StaffID != staffID {
		t.Fatalf("unexpected nullable columns %+v", got)
	}
	if got.AppointmentDate != "2026-03-14" || got.Status != domain.StatusPending || got.Source != domain.SourceOwnerManual {
		t.Fatalf("unexpected appointment %+v", got)
	}

	bookings, err := store.ListStaffBookings(ctx, f.business.ID, "2026-03-14")
	if err != nil || len(bookings) != 2 {
		t.Fatalf("bookings: %+v err=%v", bookings, err)
	}
	if bookings[1].Start.String() != "12:00" || bookings[1].End.String() != "12:30" {
		t.Fatalf("expected fallback interval 12:00-12:30, got %s-%s", bookings[1].Start, bookings[1].End)
	}

	mine, err := store.ListCustomerAppointments(ctx, cust)
	if err != nil || len(mine) != 2 {
		t.Fatalf("customer appointments: %+v err=%v", mine, err)
	}
	if mine[0].ID != cancelled.ID || mine[0].BusinessName != "Parla Kuaför" || mine[0].ServiceDuration != 30 {
		t.Fatalf("unexpected detail %+v", mine[0])
	}
	owned, err := store.ListOwnerAppointments(ctx, f.owner.ID)
	if err != nil || len(owned) != 3 {
		t.Fatalf("owner appointments: %d err=%v", len(owned), err)
	}

	if err := store.UpdateAppointmentStatus(ctx, booked.ID, domain.StatusCompleted); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := store.UpdateAppointmentStatus(ctx, booked.ID, "done"); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	ok, err := store.HasQualifyingAppointment(ctx, cust, f.business.ID, "2026-03-15")
	if err != nil || !ok {
		t.Fatalf("expected qualifying appointment, ok=%v err=%v", ok, err)
	}
	ok, _ = store.HasQualifyingAppointment(ctx, cust, f.business.ID, "2026-03-14")
	if ok {
		t.Fatalf("same-day appointment must not qualify")
	}

	n, err := store.DeleteAppointmentsBefore(ctx, "2026-03-15")
	if err != nil || n != 3 {
		t.Fatalf("expected 3 deleted, got %d err=%v", n, err)
	}
}

func TestStatusCheckConstraint(t *testing.T) {
	store := newTestStore(t)
	f := seedFixture(t, store)
	_, err := store.q.ExecContext(context.Background(),
		`INSERT INTO appointments (business_id, service_id, appointment_date, appointment_time, status) VALUES (?, ?, '2026-01-01', '10:00', 'waiting')`,
		f.business.ID, f.haircut.ID)
	if !errors.Is(classify(err), domain.ErrInvalid) {
		t.Fatalf("expected CHECK violation, got %v", err)
	}
}

func TestForeignKeysEnforced(t *testing.T) {
	store := newTestStore(t)
	appt := domain.Appointment{BusinessID: 42, ServiceID: 42, AppointmentDate: "2026-01-01", AppointmentTime: "10:00"}
	if err := store.CreateAppointment(context.Background(), &appt); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected FK violation, got %v", err)
	}
}

func TestReviews(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)

	r := domain.Review{BusinessID: f.business.ID, CustomerID: f.customer.ID, Rating: 5, Comment: "Harika hizmet"}
	if err := store.CreateReview(ctx, &r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := store.CreateReview(ctx, &domain.Review{BusinessID: f.business.ID, CustomerID: f.customer.ID, Rating: 6}); !errors.Is(err, domain.ErrInvalid) {
		t.Fatalf("expected ErrInvalid for rating 6, got %v", err)
	}
	has, err := store.HasReview(ctx, f.business.ID, f.customer.ID)
	if err != nil || !has {
		t.Fatalf("expected review, has=%v err=%v", has, err)
	}
	list, err := store.ListReviewsByBusiness(ctx, f.business.ID)
	if err != nil || len(list) != 1 || list[0].CustomerName != "Müşteri" {
		t.Fatalf("unexpected reviews %+v err=%v", list, err)
	}

	if err := store.UpdateReview(ctx, r.ID, f.owner.ID, 1, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user's review, got %v", err)
	}
	if err := store.UpdateReview(ctx, r.ID, f.customer.ID, 3, "İdare eder"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := store.GetReview(ctx, r.ID)
	if err != nil || got.Rating != 3 || got.Comment != "İdare eder" {
		t.Fatalf("unexpected review %+v err=%v", got, err)
	}
	if err := store.DeleteReview(ctx, r.ID, f.customer.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestFavoritesUniquePair(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)

	created, err := store.AddFavorite(ctx, f.customer.ID, f.business.ID)
	if err != nil || !created {
		t.Fatalf("first add: created=%v err=%v", created, err)
	}
	created, err = store.AddFavorite(ctx, f.customer.ID, f.business.ID)
	if err != nil || created {
		t.Fatalf("second add must be a no-op: created=%v err=%v", created, err)
	}
	ids, err := store.ListFavoriteBusinessIDs(ctx, f.customer.ID)
	if err != nil || len(ids) != 1 || ids[0] != f.business.ID {
		t.Fatalf("unexpected favorites %v err=%v", ids, err)
	}
	favs, err := store.ListFavoriteBusinesses(ctx, f.customer.ID)
	if err != nil || len(favs) != 1 || favs[0].Name != "Parla Kuaför" {
		t.Fatalf("unexpected favorite businesses %+v err=%v", favs, err)
	}
	if _, err := store.AddFavorite(ctx, f.customer.ID, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := store.RemoveFavorite(ctx, f.customer.ID, f.business.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.RemoveFavorite(ctx, f.customer.ID, f.business.ID); err != nil {
		t.Fatalf("remove again: %v", err)
	}
	ids, _ = store.ListFavoriteBusinessIDs(ctx, f.customer.ID)
	if len(ids) != 0 {
		t.Fatalf("expected no favorites, got %v", ids)
	}
}

func TestInTxRollsBack(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")
	err := store.InTx(ctx, func(tx *Store) error {
		u := domain.User{Email: "tx@example.com", Password: "x", Name: "Tx", Role: domain.RoleCustomer}
		if err := tx.CreateUser(ctx, &u); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := store.GetUserByEmail(ctx, "tx@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected rollback, got %v", err)
	}
}

func TestInTxRollsBackOnPanic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected the panic to propagate")
			}
		}()
		store.InTx(ctx, func(tx *Store) error {
			u := domain.User{Email: "panic@example.com", Password: "x", Name: "Panic", Role: domain.RoleCustomer}
			if err := tx.CreateUser(ctx, &u); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	done := make(chan error, 1)
	go func() {
		_, err := store.GetUserByEmail(ctx, "panic@example.com")
		done <- err
	}()
	select {
	case err := <-done:
		if !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected rollback, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("store still held by the panicked transaction")
	}

	u := domain.User{Email: "after@example.com", Password: "x", Name: "After", Role: domain.RoleCustomer}
	if err := store.InTx(ctx, func(tx *Store) error { return tx.CreateUser(ctx, &u) }); err != nil {
		t.Fatalf("transaction after panic: %v", err)
	}
}

func TestSettingsFallBackFromUnusableRow(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	f := seedFixture(t, store)
	script := fmt.Sprintf(`INSERT INTO business_settings (business_id, slot_interval_minutes, min_notice_minutes, booking_window_days)
VALUES (%d, 0, -5, 7);`, f.business.ID)
	if err := store.ExecScript(ctx, script); err != nil {
		t.Fatalf("exec: %v", err)
	}
	set, err := store.GetSettings(ctx, f.business.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if set.SlotIntervalMinutes != 15 || set.MinNoticeMinutes != 60 || set.BookingWindowDays != 7 {
		t.Fatalf("unexpected settings %+v", set)
	}
}

func TestExecScript(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	script := `
INSERT INTO users (email, password, name, role) VALUES ('s1@example.com', 'x', 'S1', 'customer');
INSERT INTO users (email, password, name, role) VALUES ('s2@example.com', 'x', 'S2', 'customer');
`
	if err := store.ExecScript(ctx, script); err != nil {
		t.Fatalf("exec: %v", err)
	}
	counts, _ := store.TableCounts(ctx)
	if counts["users"] != 2 {
		t.Fatalf("expected 2 users, got %d", counts["users"])
	}
	if err := store.ExecScript(ctx, "NOT SQL;"); !errors.Is(err, domain.ErrExecution) {
		t.Fatalf("expected ErrExecution, got %v", err)
	}
}
