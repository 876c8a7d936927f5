package services

import (
	"strings"
	"testing"

	"hotel-backend/models"
)

func TestGenerateLinesAccommodationOnly(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedStay(t, db)

	inv := models.Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)

	if err := GenerateLines(db, &inv, false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var lines []models.InvoiceLine
	if err := db.Where("invoice_id = ?", inv.ID).Order("id").Find(&lines).Error; err != nil {
		t.Fatalf("load lines: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 accommodation lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.UnitPrice != 100 || line.Quantity != 1 || line.VATRate != models.DefaultVATRate {
			t.Fatalf("line %d: unexpected %v/%v/%v", i, line.UnitPrice, line.Quantity, line.VATRate)
		}
		if !strings.Contains(line.Description, "Room 101") {
			t.Fatalf("line %d: description %q should name the room", i, line.Description)
		}
		if line.Total != 109 {
			t.Fatalf("line %d: expected total 109, got %v", i, line.Total)
		}
	}

	// 3 nights x 109.00 gross.
	if inv.Total != 327 {
		t.Fatalf("expected invoice total 327, got %v", inv.Total)
	}

	summary := VATSummary(lines)
	if len(summary) != 1 || summary[0].Rate != 9 || summary[0].Base != 300 || summary[0].VAT != 27 || summary[0].Total != 327 {
		t.Fatalf("unexpected VAT summary: %+v", summary)
	}
}

func TestGenerateLinesWithBreakfast(t *testing.T) {
	db := newTestDB(t)
	room := models.Room{Number: "101", Type: models.RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)
	client := models.Client{FirstName: "Ana", LastName: "Pop"}
	mustCreate(t, db, &client)
	res := models.Reservation{
		ClientID:          client.Id,
		RoomID:            room.ID,
		CheckIn:           day(t, "2024-06-01"),
		CheckOut:          day(t, "2024-06-04"),
		BreakfastIncluded: true,
		BreakfastPrice:    10,
	}
	mustCreate(t, db, &res)

	inv := models.Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)
	if err := GenerateLines(db, &inv, false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var lines []models.InvoiceLine
	if err := db.Where("invoice_id = ?", inv.ID).Find(&lines).Error; err != nil {
		t.Fatalf("load lines: %v", err)
	}
	if len(lines) != 6 {
		t.Fatalf("expected 3 accommodation + 3 breakfast lines, got %d", len(lines))
	}

	summary := VATSummary(lines)
	if len(summary) != 1 {
		t.Fatalf("expected one VAT bucket, got %d", len(summary))
	}
	// Net 330.00 (300 room + 30 breakfast), each line's VAT computed
	// independently: 3x9.00 + 3x0.90 = 29.70.
	if summary[0].Base != 330 || summary[0].VAT != 29.7 || summary[0].Total != 359.7 {
		t.Fatalf("unexpected VAT summary: %+v", summary)
	}
	if inv.Total != 359.7 {
		t.Fatalf("expected invoice total 359.70, got %v", inv.Total)
	}
}

func TestGenerateLinesIdempotent(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedStay(t, db)

	inv := models.Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)

	if err := GenerateLines(db, &inv, false); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if err := GenerateLines(db, &inv, false); err != nil {
		t.Fatalf("second generate: %v", err)
	}

	var count int64
	db.Model(&models.InvoiceLine{}).Where("invoice_id = ?", inv.ID).Count(&count)
	if count != 3 {
		t.Fatalf("repeat generate without overwrite must not duplicate lines, got %d", count)
	}

	// Overwrite rebuilds from scratch.
	if err := GenerateLines(db, &inv, true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	db.Model(&models.InvoiceLine{}).Where("invoice_id = ?", inv.ID).Count(&count)
	if count != 3 {
		t.Fatalf("overwrite must leave exactly one fresh set, got %d", count)
	}
}

func TestGenerateLinesUsesSeasonPrices(t *testing.T) {
	db := newTestDB(t)
	room, client, res := seedStay(t, db)

	mustCreate(t, db, &models.RateSeason{
		Name:      "June promo",
		RoomID:    &room.ID,
		StartDate: day(t, "2024-06-02"),
		EndDate:   day(t, "2024-06-03"),
		Price:     120,
		ApplyOn:   models.ApplyOnAll,
		Active:    true,
	})

	inv := models.Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)
	if err := GenerateLines(db, &inv, false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	var lines []models.InvoiceLine
	if err := db.Where("invoice_id = ?", inv.ID).Order("id").Find(&lines).Error; err != nil {
		t.Fatalf("load lines: %v", err)
	}
	// Nights 06-01, 06-02, 06-03: the promo covers the middle two.
	want := []float64{100, 120, 120}
	for i, line := range lines {
		if line.UnitPrice != want[i] {
			t.Fatalf("night %d: expected %v, got %v", i, want[i], line.UnitPrice)
		}
	}
}

func TestGenerateLinesRefusesLockedInvoice(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedStay(t, db)

	inv := models.Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)
	if err := db.Model(&inv).Update("locked", true).Error; err != nil {
		t.Fatalf("lock: %v", err)
	}
	inv.Locked = true

	if err := GenerateLines(db, &inv, true); err != models.ErrInvoiceLocked {
		t.Fatalf("expected ErrInvoiceLocked, got %v", err)
	}
}

func TestVATSummaryMultipleRates(t *testing.T) {
	lines := []models.InvoiceLine{
		{VATRate: 19, TotalExclVAT: 100, VATAmount: 19, Total: 119},
		{VATRate: 9, TotalExclVAT: 200, VATAmount: 18, Total: 218},
		{VATRate: 9, TotalExclVAT: 100, VATAmount: 9, Total: 109},
	}
	summary := VATSummary(lines)
	if len(summary) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(summary))
	}
	if summary[0].Rate != 9 || summary[1].Rate != 19 {
		t.Fatalf("buckets must sort by rate ascending: %+v", summary)
	}
	if summary[0].Base != 300 || summary[0].VAT != 27 || summary[0].Total != 327 {
		t.Fatalf("unexpected 9%% bucket: %+v", summary[0])
	}
}

func TestLockInvoiceWritesVersion(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedStay(t, db)

	inv := models.Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)
	if err := GenerateLines(db, &inv, false); err != nil {
		t.Fatalf("generate: %v", err)
	}

	version, err := LockInvoice(db, &inv)
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	if version.VersionNo != 1 || len(version.Snapshot) == 0 {
		t.Fatalf("unexpected version: %+v", version)
	}
	if !inv.Locked {
		t.Fatal("invoice must be locked")
	}

	again, err := LockInvoice(db, &inv)
	if err != nil {
		t.Fatalf("relock: %v", err)
	}
	if again.VersionNo != 2 {
		t.Fatalf("expected version 2, got %d", again.VersionNo)
	}
}
