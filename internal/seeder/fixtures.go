package seeder

import "github.com/hetulpatel/Randex/internal/domain"

// DevPassword is the plain-text password of every seeded user.
const DevPassword = "Test123!"

// Fixture references (Owner, Business, Service, ...) are 1-based positions in
// the slices below; they resolve to the ids actually inserted.

type userFixture struct {
	Email string
	Name  string
	Phone string
	Role  domain.Role
}

type businessFixture struct {
	Owner       int
	Name        string
	Type        string
	Description string
	City        string
	District    string
	Address     string
	Phone       string
	Opening     string
	Closing     string
}

type serviceFixture struct {
	Business    int
	Name        string
	Description string
	Price       float64
	Duration    int
}

type staffFixture struct {
	Business int
	Name     string
}

type settingsFixture struct {
	Business      int
	SlotInterval  int
	MinNotice     int
	BookingWindow int
}

type appointmentFixture struct {
	Business  int
	Service   int
	Customer  int
	DayOffset int // relative to the seed day
	Time      string
	Status    domain.AppointmentStatus
	Name      string
	Phone     string
	Source    domain.Source
	Notes     string
	Staff     int
}

type reviewFixture struct {
	Business int
	Customer int
	Rating   domain.Rating
	Comment  string
}

type favoriteFixture struct {
	Customer int
	Business int
}

var users = []userFixture{
	{"owner1@example.com", "İşletme Sahibi 1", "05000000001", domain.RoleBusinessOwner},
	{"owner2@example.com", "İşletme Sahibi 2", "05000000002", domain.RoleBusinessOwner},
	{"owner3@example.com", "İşletme Sahibi 3", "05000000009", domain.RoleBusinessOwner},
	{"cust1@example.com", "Müşteri 1", "05000000003", domain.RoleCustomer},
	{"cust2@example.com", "Müşteri 2", "05000000004", domain.RoleCustomer},
	{"cust3@example.com", "Müşteri 3", "05000000005", domain.RoleCustomer},
	{"cust4@example.com", "Müşteri 4", "05000000006", domain.RoleCustomer},
}

var businesses = []businessFixture{
	{1, "Parla Kuaför", "kuafor", "Saç kesim ve bakım", "İstanbul", "Kadıköy", "Moda Mah. 1", "02165550000", "09:00", "20:00"},
	{2, "Ne Olur Dövme", "dovmeci", "Dövme hizmeti", "Ankara", "Çankaya", "Kızılay 2", "03125550000", "10:00", "22:00"},
	{3, "Nar Güzellik", "guzellik", "Güzellik Merkezi", "İzmir", "Konak", "Alsancak 3", "02325550000", "08:00", "18:00"},
}

var services = []serviceFixture{
	{1, "Saç Kesim", "Klasik saç kesim", 250, 45},
	{1, "Fön", "Fön ve şekillendirme", 150, 30},
	{2, "Büyük Dövme", "Dövme hizmeti", 5000, 60},
	{2, "Küçük Dövme", "Küçük dövme hizmeti", 3000, 30},
	{3, "Yüz Maskesi", "Yüz maskesi", 350, 40},
	{3, "Nail Art", "Tırnak süsleme", 700, 50},
}

var staff = []staffFixture{
	{1, "Ahmet"},
	{1, "Ayşe"},
	{2, "Mehmet"},
	{3, "Selin"},
	{3, "Ali"},
}

// staffServices pairs (staff, service). Uneven counts exercise the
// fewest-services-first assignment.
var staffServices = [][2]int{
	{1, 1}, {1, 2},
	{2, 1},
	{3, 3}, {3, 4},
	{4, 5}, {5, 5}, {5, 6},
}

var settings = []settingsFixture{
	{1, 15, 60, 30},
	{2, 20, 120, 45},
	{3, 15, 30, 20},
}

var appointments = []appointmentFixture{
	{1, 1, 3, -40, "10:00", domain.StatusCompleted, "Müşteri 1", "05000000003", domain.SourceCustomer, "Geçmiş randevu", 1},
	{1, 2, 4, -10, "11:30", domain.StatusConfirmed, "Müşteri 2", "05000000004", domain.SourceCustomer, "Yakın geçmiş", 2},
	{2, 3, 3, 2, "14:00", domain.StatusPending, "Müşteri 1", "05000000003", domain.SourceCustomer, "Gelecek randevu", 3},
	{2, 4, 5, 5, "16:00", domain.StatusPending, "Müşteri 3", "05000000005", domain.SourceCustomer, "Aroma terapi", 3},
	{3, 5, 3, -1, "09:30", domain.StatusConfirmed, "Müşteri 1", "05000000003", domain.SourceOwner, "Muayene", 4},
	{3, 6, 6, 1, "12:00", domain.StatusPending, "Müşteri 4", "05000000006", domain.SourceCustomer, "Fzt seans", 5},
}

var reviews = []reviewFixture{
	{1, 3, 5, "Harika hizmet"},
	{2, 3, 4, "İyi fakat yoğun"},
	{2, 4, 5, "Çok memnun kaldım"},
	{1, 4, 4, "İdare eder"},
	{3, 3, 5, "Profesyonel yaklaşım"},
}

var favorites = []favoriteFixture{
	{3, 1}, {3, 2}, {4, 2}, {5, 3}, {6, 1},
}
