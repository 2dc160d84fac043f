package services

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"agroland-backend/database"
	"agroland-backend/internal/models"
)

// newTestDB opens a fresh in-memory database with the full schema. A
// single connection keeps the memory database alive for the test.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", "file::memory:?_foreign_keys=1")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

// Low bcrypt cost keeps the test suite fast.
const testBcryptCost = 4

func createTestUser(t *testing.T, db *sql.DB, email, userType string) *models.User {
	t.Helper()

	userService := NewUserService(db, testBcryptCost)
	user, err := userService.CreateUser(&models.UserRegistration{
		Name:     "Test User",
		Email:    email,
		Password: "Password123",
		UserType: userType,
	})
	require.NoError(t, err)
	return user
}

func testLandCreate() *models.LandCreate {
	return &models.LandCreate{
		Title:        "Fertile riverside cropland",
		Description:  "Well irrigated cropland close to the mandi with year-round canal water.",
		LandType:     "cropland",
		ListingType:  "sale",
		Price:        2500000,
		PricePerAcre: 500000,
		TotalArea:    5,
		City:         "Nashik",
		State:        "Maharashtra",
		PinCode:      "422001",
	}
}

func createApprovedLand(t *testing.T, db *sql.DB, ownerID string) *models.Land {
	t.Helper()

	landService := NewLandService(db)
	land, err := landService.CreateLand(ownerID, testLandCreate())
	require.NoError(t, err)

	admin := createTestUser(t, db, "approver-"+land.ID[:8]+"@example.com", "")
	_, err = db.Exec("UPDATE users SET user_type = 'admin' WHERE id = ?", admin.ID)
	require.NoError(t, err)

	approved, err := landService.ApproveLand(land.ID, admin.ID, "")
	require.NoError(t, err)
	return approved
}
