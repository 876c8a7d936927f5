package models

import (
	"testing"

	"gorm.io/gorm"
)

func seedReservation(t *testing.T, db *gorm.DB, number string) (Room, Client, Reservation) {
	t.Helper()
	room := Room{Number: number, Type: RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)
	client := Client{FirstName: "Ana", LastName: "Pop", Address: "Str. Lunga 1", City: "Brasov", Country: "Romania"}
	mustCreate(t, db, &client)
	res := Reservation{
		ClientID: client.Id,
		RoomID:   room.ID,
		CheckIn:  day(t, "2024-06-01"),
		CheckOut: day(t, "2024-06-04"),
	}
	mustCreate(t, db, &res)
	return room, client, res
}

func TestInvoiceLineDerivation(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedReservation(t, db, "101")

	inv := Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)

	line := InvoiceLine{
		InvoiceID:   inv.ID,
		Description: "Room 101 - night 2024-06-01",
		Quantity:    1,
		UnitPrice:   100,
		VATRate:     9,
	}
	mustCreate(t, db, &line)

	if line.TotalExclVAT != 100 || line.VATAmount != 9 || line.Total != 109 {
		t.Fatalf("unexpected derivation: base=%v vat=%v total=%v", line.TotalExclVAT, line.VATAmount, line.Total)
	}

	// Rounding happens at every step, not only at the end.
	line2 := InvoiceLine{
		InvoiceID:   inv.ID,
		Description: "Odd price",
		Quantity:    3,
		UnitPrice:   33.335,
		VATRate:     9,
	}
	mustCreate(t, db, &line2)
	// base = round2(3 * 33.335) = 100.01 (not 100.005 carried forward)
	if line2.TotalExclVAT != 100.01 {
		t.Fatalf("expected base 100.01, got %v", line2.TotalExclVAT)
	}
	if line2.VATAmount != 9.0 {
		t.Fatalf("expected vat round2(100.01*0.09)=9.00, got %v", line2.VATAmount)
	}
	if line2.Total != 109.01 {
		t.Fatalf("expected total 109.01, got %v", line2.Total)
	}

	// Derived fields are recomputed on every save.
	line.UnitPrice = 120
	if err := db.Save(&line).Error; err != nil {
		t.Fatalf("resave: %v", err)
	}
	if line.TotalExclVAT != 120 || line.VATAmount != 10.8 || line.Total != 130.8 {
		t.Fatalf("resave did not rederive: base=%v vat=%v total=%v", line.TotalExclVAT, line.VATAmount, line.Total)
	}
}

func TestInvoiceRecomputeTotal(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedReservation(t, db, "101")

	inv := Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)

	for i := 0; i < 3; i++ {
		mustCreate(t, db, &InvoiceLine{
			InvoiceID: inv.ID,
			Quantity:  1, UnitPrice: 100, VATRate: 9,
			Description: "night",
		})
	}
	if err := inv.RecomputeTotal(db); err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if inv.Total != 327 {
		t.Fatalf("expected 3*109=327, got %v", inv.Total)
	}

	var stored Invoice
	if err := db.First(&stored, inv.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.Total != 327 {
		t.Fatalf("total not persisted, got %v", stored.Total)
	}
}

func TestInvoiceSequentialNumbering(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedReservation(t, db, "101")

	room2 := Room{Number: "102", Type: RoomTypeDouble, PricePerNight: 90}
	mustCreate(t, db, &room2)
	res2 := Reservation{
		ClientID: client.Id,
		RoomID:   room2.ID,
		CheckIn:  day(t, "2024-06-01"),
		CheckOut: day(t, "2024-06-03"),
	}
	mustCreate(t, db, &res2)

	first := Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &first)
	second := Invoice{ReservationID: res2.ID, ClientID: client.Id}
	mustCreate(t, db, &second)

	if first.Series != DefaultInvoiceSeries || second.Series != DefaultInvoiceSeries {
		t.Fatalf("expected default series %q", DefaultInvoiceSeries)
	}
	if first.Number != 1 || second.Number != 2 {
		t.Fatalf("expected gap-free 1,2 - got %d,%d", first.Number, second.Number)
	}
}

func TestInvoiceUniquePerReservation(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedReservation(t, db, "101")

	mustCreate(t, db, &Invoice{ReservationID: res.ID, ClientID: client.Id})
	err := db.Create(&Invoice{ReservationID: res.ID, ClientID: client.Id}).Error
	if err == nil {
		t.Fatal("second invoice for the same reservation must violate the unique index")
	}
}

func TestInvoiceBillingSnapshot(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedReservation(t, db, "101")

	inv := Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &inv)

	if inv.BillingName != "Ana Pop" {
		t.Fatalf("expected snapshot name, got %q", inv.BillingName)
	}
	if inv.BillingAddress != "Str. Lunga 1, Brasov, Romania" {
		t.Fatalf("unexpected snapshot address %q", inv.BillingAddress)
	}
}

func TestClientEditResyncsUnlockedInvoices(t *testing.T) {
	db := newTestDB(t)
	_, client, res := seedReservation(t, db, "101")

	room2 := Room{Number: "102", Type: RoomTypeDouble, PricePerNight: 90}
	mustCreate(t, db, &room2)
	res2 := Reservation{
		ClientID: client.Id,
		RoomID:   room2.ID,
		CheckIn:  day(t, "2024-06-01"),
		CheckOut: day(t, "2024-06-03"),
	}
	mustCreate(t, db, &res2)

	open := Invoice{ReservationID: res.ID, ClientID: client.Id}
	mustCreate(t, db, &open)
	locked := Invoice{ReservationID: res2.ID, ClientID: client.Id}
	mustCreate(t, db, &locked)
	if err := db.Model(&locked).Update("locked", true).Error; err != nil {
		t.Fatalf("lock: %v", err)
	}

	client.BillingType = BillingCompany
	client.CompanyName = "Pop SRL"
	client.CompanyTaxID = "RO123456"
	if err := db.Save(&client).Error; err != nil {
		t.Fatalf("update client: %v", err)
	}

	var reloadedOpen, reloadedLocked Invoice
	if err := db.First(&reloadedOpen, open.ID).Error; err != nil {
		t.Fatalf("reload open: %v", err)
	}
	if err := db.First(&reloadedLocked, locked.ID).Error; err != nil {
		t.Fatalf("reload locked: %v", err)
	}

	if reloadedOpen.BillingName != "Pop SRL" || reloadedOpen.BillingTaxID != "RO123456" {
		t.Fatalf("unlocked invoice not resynced: %q %q", reloadedOpen.BillingName, reloadedOpen.BillingTaxID)
	}
	if reloadedLocked.BillingName != "Ana Pop" {
		t.Fatalf("locked invoice must keep its snapshot, got %q", reloadedLocked.BillingName)
	}
}

func TestRenderPDFNotImplemented(t *testing.T) {
	inv := Invoice{}
	if _, err := inv.RenderPDF(); err != ErrNotImplemented {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}
