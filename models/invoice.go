package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotel-backend/utils"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentTransfer PaymentMethod = "transfer"
)

const (
	// DefaultInvoiceSeries is the legal series new invoices are numbered in.
	DefaultInvoiceSeries = "XB"
	// DefaultVATRate is the jurisdiction default VAT percentage for
	// accommodation and breakfast lines.
	DefaultVATRate = 9.0
)

// Invoice is the legal document for exactly one reservation. The (series,
// number) pair is unique and assigned sequentially on first save; the billing
// fields are a snapshot of the client taken at generation time and frozen once
// the invoice is locked.
type Invoice struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	ReservationID uint        `json:"reservation_id" gorm:"not null;uniqueIndex"`
	Reservation   Reservation `json:"reservation" gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE"`
	ClientID      string      `json:"client_id" gorm:"not null;index"`
	Client        Client      `json:"-" gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`

	Series        string        `json:"series" gorm:"size:10;not null;default:'XB';index:idx_invoices_series_number,unique,priority:1"`
	Number        uint          `json:"number" gorm:"index:idx_invoices_series_number,unique,priority:2"`
	IssueDate     time.Time     `json:"issue_date" gorm:"autoCreateTime"`
	DueDate       *time.Time    `json:"due_date" gorm:"type:date"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"size:20;not null;default:'cash'"`
	Currency      string        `json:"currency" gorm:"size:3;not null;default:'EUR'"`

	Lines []InvoiceLine `json:"lines" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Total float64       `json:"total" gorm:"type:numeric(12,2)"`

	// Billing snapshot; immune to client edits while Locked.
	BillingName    string `json:"billing_name" gorm:"size:255"`
	BillingTaxID   string `json:"billing_tax_id" gorm:"size:50"`
	BillingAddress string `json:"billing_address" gorm:"size:255"`
	Locked         bool   `json:"locked"`

	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type InvoiceLine struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	InvoiceID   uint    `json:"-" gorm:"not null;index"`
	Description string  `json:"description" gorm:"size:200;not null"`
	Quantity    float64 `json:"quantity" gorm:"type:numeric(8,2);default:1"`
	UnitPrice   float64 `json:"unit_price" gorm:"type:numeric(10,2)"`
	VATRate     float64 `json:"vat_rate" gorm:"type:numeric(4,2)"`

	// Derived, recomputed on every save.
	TotalExclVAT float64 `json:"total_excl_vat" gorm:"type:numeric(12,2)"`
	VATAmount    float64 `json:"vat_amount" gorm:"type:numeric(12,2)"`
	Total        float64 `json:"total" gorm:"type:numeric(12,2)"`
}

// InvoiceVersion is an immutable snapshot written when an invoice is locked.
type InvoiceVersion struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	InvoiceID uint           `json:"invoice_id" gorm:"index:idx_invoice_versions_invoice_id_version_no,unique,priority:1"`
	VersionNo int            `json:"version_no" gorm:"not null;index:idx_invoice_versions_invoice_id_version_no,unique,priority:2"`
	Snapshot  datatypes.JSON `json:"snapshot" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at"`
}

// BeforeSave derives the monetary fields from quantity, unit price and VAT
// rate, rounding to 2 decimals at each step.
func (line *InvoiceLine) BeforeSave(tx *gorm.DB) error {
	base := utils.Round2(line.Quantity * line.UnitPrice)
	vat := utils.Round2(base * line.VATRate / 100)
	line.TotalExclVAT = base
	line.VATAmount = vat
	line.Total = utils.Round2(base + vat)
	return nil
}

// BeforeCreate assigns the next free number in the series and takes the
// billing snapshot. The unique index on (series, number) catches the race
// between two concurrent max+1 reads; callers retry on that conflict.
func (inv *Invoice) BeforeCreate(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})

	if inv.Series == "" {
		inv.Series = DefaultInvoiceSeries
	}
	if inv.Number == 0 {
		var max int64
		err := db.Model(&Invoice{}).
			Where("series = ?", inv.Series).
			Select("COALESCE(MAX(number), 0)").
			Scan(&max).Error
		if err != nil {
			return err
		}
		inv.Number = uint(max) + 1
	}

	if inv.BillingName == "" && inv.ClientID != "" {
		var client Client
		if err := db.First(&client, "id = ?", inv.ClientID).Error; err != nil {
			return err
		}
		inv.fillBillingFrom(&client)
	}
	return nil
}

func (inv *Invoice) fillBillingFrom(client *Client) {
	inv.BillingName = client.billingName()
	inv.BillingTaxID = client.CompanyTaxID
	inv.BillingAddress = client.billingAddress()
}

// RecomputeTotal re-derives the invoice total from the stored line totals and
// persists it. Call after any change to the lines; the total column is never
// trusted without this.
func (inv *Invoice) RecomputeTotal(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	var sum float64
	err := db.Model(&InvoiceLine{}).
		Where("invoice_id = ?", inv.ID).
		Select("COALESCE(SUM(total), 0)").
		Scan(&sum).Error
	if err != nil {
		return err
	}
	inv.Total = utils.Round2(sum)
	return db.Model(&Invoice{}).Where("id = ?", inv.ID).Update("total", inv.Total).Error
}

// RenderPDF is intentionally unimplemented; the caller surfaces 501.
func (inv *Invoice) RenderPDF() ([]byte, error) {
	return nil, ErrNotImplemented
}
