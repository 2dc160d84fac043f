package database

import (
	"database/sql"
	"fmt"
	"log"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Initialize creates and returns a database connection
func Initialize(databaseURL string) (*sql.DB, error) {
	// Add SQLite-specific parameters for better concurrent access
	if !strings.Contains(databaseURL, "?") && databaseURL != ":memory:" {
		databaseURL = databaseURL + "?_busy_timeout=30000&_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_foreign_keys=1"
	}

	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for better performance
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(0) // No limit

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set SQLite pragmas for better concurrent access
	pragmas := []string{
		"PRAGMA busy_timeout = 30000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 1000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = memory",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Printf("Warning: failed to set pragma %s: %v", pragma, err)
		}
	}

	log.Println("Database connection established successfully")
	return db, nil
}

// Migrate runs database migrations
func Migrate(db *sql.DB) error {
	migrations := []string{
		createUsersTable,
		createLandsTable,
		createSavedLandsTable,
		createInquiriesTable,
		createInquiryRepliesTable,
		createBookingsTable,
		createIndexes,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL DEFAULT '',
    phone TEXT,
    user_type TEXT NOT NULL DEFAULT 'buyer',
    avatar TEXT,
    google_id TEXT,
    auth_provider TEXT NOT NULL DEFAULT 'local',
    is_verified BOOLEAN DEFAULT FALSE,
    is_active BOOLEAN DEFAULT TRUE,
    preferences TEXT DEFAULT '{}',
    last_login DATETIME,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

const createLandsTable = `
CREATE TABLE IF NOT EXISTS lands (
    id TEXT PRIMARY KEY,
    owner_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    land_type TEXT NOT NULL,
    listing_type TEXT NOT NULL,
    lease_type TEXT,
    price REAL NOT NULL,
    price_per_acre REAL NOT NULL,
    total_area REAL NOT NULL,
    cultivable_area REAL DEFAULT 0,
    irrigated_area REAL DEFAULT 0,
    address TEXT,
    city TEXT NOT NULL,
    state TEXT NOT NULL,
    pin_code TEXT,
    latitude REAL,
    longitude REAL,
    soil_type TEXT,
    soil_quality TEXT,
    suitable_crops TEXT DEFAULT '[]',
    water_sources TEXT DEFAULT '[]',
    water_availability TEXT,
    road_access TEXT,
    boundary TEXT,
    climate TEXT,
    rainfall TEXT,
    electricity_available BOOLEAN DEFAULT FALSE,
    images TEXT DEFAULT '[]',
    documents TEXT DEFAULT '[]',
    approval_status TEXT NOT NULL DEFAULT 'pending',
    admin_comments TEXT,
    reviewed_by TEXT,
    reviewed_at DATETIME,
    status TEXT NOT NULL DEFAULT 'active',
    is_featured BOOLEAN DEFAULT FALSE,
    views INTEGER DEFAULT 0,
    inquiry_count INTEGER DEFAULT 0,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);`

const createSavedLandsTable = `
CREATE TABLE IF NOT EXISTS saved_lands (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL,
    land_id TEXT NOT NULL,
    saved_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (land_id) REFERENCES lands(id) ON DELETE CASCADE,
    UNIQUE(user_id, land_id)
);`

const createInquiriesTable = `
CREATE TABLE IF NOT EXISTS inquiries (
    id TEXT PRIMARY KEY,
    land_id TEXT NOT NULL,
    buyer_id TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    message TEXT NOT NULL,
    inquiry_type TEXT NOT NULL DEFAULT 'general',
    offer_price REAL,
    contact_phone TEXT,
    visit_date DATETIME,
    status TEXT NOT NULL DEFAULT 'pending',
    is_read_by_owner BOOLEAN DEFAULT FALSE,
    is_read_by_buyer BOOLEAN DEFAULT TRUE,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (land_id) REFERENCES lands(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE,
    FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
);`

const createInquiryRepliesTable = `
CREATE TABLE IF NOT EXISTS inquiry_replies (
    id TEXT PRIMARY KEY,
    inquiry_id TEXT NOT NULL,
    sender_id TEXT NOT NULL,
    message TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (inquiry_id) REFERENCES inquiries(id) ON DELETE CASCADE,
    FOREIGN KEY (sender_id) REFERENCES users(id) ON DELETE CASCADE
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id TEXT PRIMARY KEY,
    land_id TEXT NOT NULL,
    buyer_id TEXT NOT NULL,
    amount REAL NOT NULL,
    currency TEXT NOT NULL DEFAULT 'INR',
    order_id TEXT NOT NULL,
    payment_id TEXT NOT NULL,
    signature TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'confirmed',
    booking_date DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (land_id) REFERENCES lands(id) ON DELETE CASCADE,
    FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE
);`

const createIndexes = `
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_phone ON users(phone) WHERE phone IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_lands_owner_id ON lands(owner_id);
CREATE INDEX IF NOT EXISTS idx_lands_approval_status ON lands(approval_status);
CREATE INDEX IF NOT EXISTS idx_lands_city ON lands(city);
CREATE INDEX IF NOT EXISTS idx_lands_state ON lands(state);
CREATE INDEX IF NOT EXISTS idx_lands_land_type ON lands(land_type);
CREATE INDEX IF NOT EXISTS idx_lands_price ON lands(price);
CREATE INDEX IF NOT EXISTS idx_lands_coords ON lands(latitude, longitude);
CREATE INDEX IF NOT EXISTS idx_saved_lands_user_id ON saved_lands(user_id);
CREATE INDEX IF NOT EXISTS idx_inquiries_buyer_id ON inquiries(buyer_id);
CREATE INDEX IF NOT EXISTS idx_inquiries_owner_id ON inquiries(owner_id);
CREATE INDEX IF NOT EXISTS idx_inquiry_replies_inquiry_id ON inquiry_replies(inquiry_id);
CREATE INDEX IF NOT EXISTS idx_bookings_buyer_id ON bookings(buyer_id);`
