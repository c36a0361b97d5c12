package sqlite

import (
	"context"
	"fmt"
)

// Tables lists every relation in dependency order (parents first).
var Tables = []string{
	"users",
	"businesses",
	"services",
	"staff",
	"staff_services",
	"business_settings",
	"appointments",
	"reviews",
	"favorites",
}

// CreateTables ensures the booking schema exists. Existing tables are left as is.
func (s *Store) CreateTables(ctx context.Context) error {
	if _, err := s.q.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", classify(err))
	}
	return nil
}

// DropTables removes every booking table, children first.
func (s *Store) DropTables(ctx context.Context) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := s.q.ExecContext(ctx, "DROP TABLE IF EXISTS "+Tables[i]+";"); err != nil {
			return fmt.Errorf("drop %s: %w", Tables[i], classify(err))
		}
	}
	return nil
}

// ClearTables deletes all rows and restarts AUTOINCREMENT ids.
func (s *Store) ClearTables(ctx context.Context) error {
	return s.InTx(ctx, func(tx *Store) error {
		for i := len(Tables) - 1; i >= 0; i-- {
			if _, err := tx.q.ExecContext(ctx, "DELETE FROM "+Tables[i]+";"); err != nil {
				return fmt.Errorf("clear %s: %w", Tables[i], classify(err))
			}
		}
		if _, err := tx.q.ExecContext(ctx, "DELETE FROM sqlite_sequence;"); err != nil {
			return fmt.Errorf("reset sequences: %w", classify(err))
		}
		return nil
	})
}

// TableCounts returns the row count of each table that exists. Missing tables are skipped.
func (s *Store) TableCounts(ctx context.Context) (map[string]int, error) {
	existing := make(map[string]bool)
	rows, err := s.q.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table'")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, err
		}
		existing[name] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(Tables))
	for _, table := range Tables {
		if !existing[table] {
			continue
		}
		var n int
		if err := s.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

const schemaSQL = `
-- users
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	password TEXT NOT NULL,
	name TEXT NOT NULL,
	phone TEXT,
	role TEXT NOT NULL CHECK(role IN ('customer', 'business_owner')),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- businesses
CREATE TABLE IF NOT EXISTS businesses (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	description TEXT,
	city TEXT,
	district TEXT,
	address TEXT,
	phone TEXT,
	image_url TEXT,
	opening_time TEXT,
	closing_time TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (owner_id) REFERENCES users(id)
);

-- services
CREATE TABLE IF NOT EXISTS services (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	business_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	price REAL NOT NULL,
	duration INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE
);

-- appointments
CREATE TABLE IF NOT EXISTS appointments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	business_id INTEGER NOT NULL,
	service_id INTEGER NOT NULL,
	customer_id INTEGER,
	appointment_date DATE NOT NULL,
	appointment_time TEXT NOT NULL,
	start_time TEXT,
	end_time TEXT,
	staff_id INTEGER,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'confirmed', 'cancelled', 'completed')),
	customer_name TEXT,
	customer_phone TEXT,
	source TEXT DEFAULT 'customer',
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (business_id) REFERENCES businesses(id),
	FOREIGN KEY (service_id) REFERENCES services(id),
	FOREIGN KEY (customer_id) REFERENCES users(id)
);

-- reviews
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	business_id INTEGER NOT NULL,
	customer_id INTEGER NOT NULL,
	rating INTEGER NOT NULL CHECK(rating >= 1 AND rating <= 5),
	comment TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE,
	FOREIGN KEY (customer_id) REFERENCES users(id)
);

-- favorites
CREATE TABLE IF NOT EXISTS favorites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_id INTEGER NOT NULL,
	business_id INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(customer_id, business_id),
	FOREIGN KEY (customer_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE
);

-- business_settings
CREATE TABLE IF NOT EXISTS business_settings (
	business_id INTEGER PRIMARY KEY,
	slot_interval_minutes INTEGER DEFAULT 15,
	min_notice_minutes INTEGER DEFAULT 60,
	booking_window_days INTEGER DEFAULT 30,
	FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE
);

-- staff
CREATE TABLE IF NOT EXISTS staff (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	business_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	active INTEGER DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (business_id) REFERENCES businesses(id) ON DELETE CASCADE
);

-- staff_services
CREATE TABLE IF NOT EXISTS staff_services (
	staff_id INTEGER NOT NULL,
	service_id INTEGER NOT NULL,
	PRIMARY KEY (staff_id, service_id),
	FOREIGN KEY (staff_id) REFERENCES staff(id) ON DELETE CASCADE,
	FOREIGN KEY (service_id) REFERENCES services(id) ON DELETE CASCADE
);
`
