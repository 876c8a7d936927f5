package services

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"hotel-backend/models"
	"hotel-backend/utils"

	"gorm.io/gorm"
)

// GenerateLines builds the invoice's line items from its reservation: one
// accommodation line per night, priced by the rate resolver for that night,
// plus one breakfast line per night when breakfast is included with a
// positive price. Idempotent: if the invoice already has lines, nothing
// happens unless overwrite is set, in which case the old lines are replaced.
// The invoice total is re-derived from the stored lines afterwards.
func GenerateLines(tx *gorm.DB, inv *models.Invoice, overwrite bool) error {
	if inv.Locked {
		return models.ErrInvoiceLocked
	}

	var existing int64
	err := tx.Model(&models.InvoiceLine{}).Where("invoice_id = ?", inv.ID).Count(&existing).Error
	if err != nil {
		return err
	}
	if existing > 0 {
		if !overwrite {
			return nil
		}
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceLine{}).Error; err != nil {
			return err
		}
	}

	var res models.Reservation
	if err := tx.Preload("Room").First(&res, inv.ReservationID).Error; err != nil {
		return err
	}

	for i := 0; i < res.Nights(); i++ {
		night := res.CheckIn.AddDate(0, 0, i)
		line := models.InvoiceLine{
			InvoiceID:   inv.ID,
			Description: fmt.Sprintf("Room %s - night %s", res.Room.Number, utils.FormatDate(night)),
			Quantity:    1,
			UnitPrice:   res.Room.PriceForDate(tx, night),
			VATRate:     models.DefaultVATRate,
		}
		if err := tx.Create(&line).Error; err != nil {
			return err
		}
	}

	if res.BreakfastIncluded && res.BreakfastPrice > 0 {
		for i := 0; i < res.Nights(); i++ {
			night := res.CheckIn.AddDate(0, 0, i)
			line := models.InvoiceLine{
				InvoiceID:   inv.ID,
				Description: fmt.Sprintf("Breakfast - %s", utils.FormatDate(night)),
				Quantity:    1,
				UnitPrice:   res.BreakfastPrice,
				VATRate:     models.DefaultVATRate,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}
	}

	return inv.RecomputeTotal(tx)
}

// VATBucket aggregates line amounts for one VAT rate.
type VATBucket struct {
	Rate  float64 `json:"rate"`
	Base  float64 `json:"base"`
	VAT   float64 `json:"vat"`
	Total float64 `json:"total"`
}

// VATSummary groups invoice lines by VAT rate for the legal invoice
// presentation, sorted by rate ascending.
func VATSummary(lines []models.InvoiceLine) []VATBucket {
	byRate := map[float64]*VATBucket{}
	for _, line := range lines {
		b, ok := byRate[line.VATRate]
		if !ok {
			b = &VATBucket{Rate: line.VATRate}
			byRate[line.VATRate] = b
		}
		b.Base += line.TotalExclVAT
		b.VAT += line.VATAmount
		b.Total += line.Total
	}

	out := make([]VATBucket, 0, len(byRate))
	for _, b := range byRate {
		b.Base = utils.Round2(b.Base)
		b.VAT = utils.Round2(b.VAT)
		b.Total = utils.Round2(b.Total)
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rate < out[j].Rate })
	return out
}

// LockInvoice freezes the invoice's billing snapshot and writes an immutable
// version of its current state. Locking an already-locked invoice only adds
// another version; the snapshot fields stay frozen either way.
func LockInvoice(tx *gorm.DB, inv *models.Invoice) (*models.InvoiceVersion, error) {
	if err := tx.Preload("Lines").First(inv, inv.ID).Error; err != nil {
		return nil, err
	}

	if !inv.Locked {
		if err := tx.Model(&models.Invoice{}).Where("id = ?", inv.ID).Update("locked", true).Error; err != nil {
			return nil, err
		}
		inv.Locked = true
	}

	blob, err := json.Marshal(inv)
	if err != nil {
		return nil, err
	}

	var maxVersion int64
	err = tx.Model(&models.InvoiceVersion{}).
		Where("invoice_id = ?", inv.ID).
		Select("COALESCE(MAX(version_no), 0)").
		Scan(&maxVersion).Error
	if err != nil {
		return nil, err
	}

	version := models.InvoiceVersion{
		InvoiceID: inv.ID,
		VersionNo: int(maxVersion) + 1,
		Snapshot:  blob,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.Create(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}
