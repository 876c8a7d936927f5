package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BillingType string

const (
	BillingIndividual BillingType = "individual"
	BillingCompany    BillingType = "company"
)

type Client struct {
	Id          string     `json:"id" gorm:"primaryKey"`
	FirstName   string     `json:"first_name" gorm:"size:100;not null"`
	LastName    string     `json:"last_name" gorm:"size:100"`
	Email       string     `json:"email" gorm:"size:254"`
	Phone       string     `json:"phone" gorm:"size:30"`
	Address     string     `json:"address" gorm:"size:255"`
	City        string     `json:"city" gorm:"size:100"`
	Country     string     `json:"country" gorm:"size:100"`
	DateOfBirth *time.Time `json:"date_of_birth" gorm:"type:date"`
	DocumentID  string     `json:"document_id" gorm:"size:50"`
	Notes       string     `json:"notes"`

	// Billing classification for legal invoices.
	BillingType     BillingType `json:"billing_type" gorm:"size:20;not null;default:'individual'"`
	CompanyName     string      `json:"company_name" gorm:"size:255"`
	CompanyTaxID    string      `json:"company_tax_id" gorm:"size:50"`
	CompanyVATPayer bool        `json:"company_vat_payer"`
}

func (client *Client) BeforeCreate(tx *gorm.DB) (err error) {
	// UUID version 4
	client.Id = uuid.NewString()
	return
}

// AfterUpdate pushes the new billing details onto every invoice of this client
// that is not locked. Locked invoices keep the snapshot they were issued with.
func (client *Client) AfterUpdate(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})

	var invoices []Invoice
	if err := db.Where("client_id = ? AND locked = ?", client.Id, false).Find(&invoices).Error; err != nil {
		return err
	}
	for i := range invoices {
		invoices[i].fillBillingFrom(client)
		err := db.Model(&Invoice{}).Where("id = ?", invoices[i].ID).Updates(map[string]any{
			"billing_name":    invoices[i].BillingName,
			"billing_tax_id":  invoices[i].BillingTaxID,
			"billing_address": invoices[i].BillingAddress,
		}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// DisplayName is the guest's name as shown on documents and reports.
func (client *Client) DisplayName() string {
	return strings.TrimSpace(client.FirstName + " " + client.LastName)
}

// billingName prefers the company name for company clients.
func (client *Client) billingName() string {
	if client.BillingType == BillingCompany && client.CompanyName != "" {
		return client.CompanyName
	}
	return client.DisplayName()
}

func (client *Client) billingAddress() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{client.Address, client.City, client.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
