package services

import (
	"testing"
	"time"

	"hotel-backend/models"
	"hotel-backend/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory store with the full schema. A single
// connection keeps the :memory: database alive for the test's duration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RateSeason{},
		&models.Client{},
		&models.Reservation{},
		&models.Invoice{},
		&models.InvoiceLine{},
		&models.InvoiceVersion{},
		&models.NightAudit{},
		&models.IdempotencyKey{},
	)
	if err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func mustCreate(t *testing.T, db *gorm.DB, value any) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

// seedStay creates a room, a guest and a booked reservation for 3 nights,
// 2024-06-01 to 2024-06-04.
func seedStay(t *testing.T, db *gorm.DB) (models.Room, models.Client, models.Reservation) {
	t.Helper()
	room := models.Room{Number: "101", Type: models.RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)
	client := models.Client{FirstName: "Ana", LastName: "Pop"}
	mustCreate(t, db, &client)
	res := models.Reservation{
		ClientID: client.Id,
		RoomID:   room.ID,
		CheckIn:  day(t, "2024-06-01"),
		CheckOut: day(t, "2024-06-04"),
	}
	mustCreate(t, db, &res)
	return room, client, res
}
