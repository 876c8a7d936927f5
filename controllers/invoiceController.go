package controllers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"hotel-backend/database"
	"hotel-backend/middlewares"
	"hotel-backend/models"
	"hotel-backend/services"
	"hotel-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type invoiceLineDTO struct {
	ID          uint    `json:"id"`
	Description string  `json:"description" validate:"required,max=200"`
	Quantity    float64 `json:"quantity" validate:"gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	VATRate     float64 `json:"vat_rate" validate:"gte=0,lte=100"`
}

type invoiceUpdateDTO struct {
	DueDate       *string          `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,oneof=cash card transfer"`
	Currency      *string          `json:"currency" validate:"omitempty,len=3"`
	Notes         *string          `json:"notes"`
	Lines         []invoiceLineDTO `json:"lines" validate:"omitempty,dive"`
}

func GetInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice
	err := database.FromCtx(c).
		Preload("Lines").
		Preload("Reservation").
		Order("issue_date DESC").
		Find(&invoices).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoices": invoices})
}

func GetInvoice(c *fiber.Ctx) error {
	var inv models.Invoice
	err := database.FromCtx(c).
		Preload("Lines").
		Preload("Reservation").
		Preload("Reservation.Room").
		Preload("Client").
		First(&inv, c.Params("id")).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoice":     inv,
		"vat_summary": services.VATSummary(inv.Lines),
	})
}

// UpdateInvoice patches the invoice header and replaces its line set with the
// submitted one. Line amounts are re-derived in the line hook and the invoice
// total is recomputed from the stored lines. Locked invoices reject edits.
func UpdateInvoice(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var inv models.Invoice
	if err := tx.Preload("Lines").First(&inv, c.Params("id")).Error; err != nil {
		return err
	}
	if inv.Locked {
		return models.ErrInvoiceLocked
	}

	var dto invoiceUpdateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	updates := map[string]any{}
	if dto.DueDate != nil {
		due, err := utils.ParseDate(*dto.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid due_date")
		}
		updates["due_date"] = due
	}
	if dto.PaymentMethod != nil {
		updates["payment_method"] = *dto.PaymentMethod
	}
	if dto.Currency != nil {
		updates["currency"] = *dto.Currency
	}
	if dto.Notes != nil {
		updates["notes"] = *dto.Notes
	}
	if len(updates) > 0 {
		if err := tx.Model(&inv).Updates(updates).Error; err != nil {
			return err
		}
	}

	if dto.Lines != nil {
		if err := replaceLines(tx, &inv, dto.Lines); err != nil {
			return err
		}
	}
	if err := inv.RecomputeTotal(tx); err != nil {
		return err
	}

	if err := tx.Preload("Lines").First(&inv, inv.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoice":     inv,
		"vat_summary": services.VATSummary(inv.Lines),
	})
}

// replaceLines reconciles the stored lines with the submitted set: lines with
// a known id are updated, new ones created, missing ones deleted.
func replaceLines(tx *gorm.DB, inv *models.Invoice, dtos []invoiceLineDTO) error {
	keep := map[uint]bool{}
	for _, d := range dtos {
		if d.ID != 0 {
			keep[d.ID] = true
		}
	}
	for i := range inv.Lines {
		if !keep[inv.Lines[i].ID] {
			if err := tx.Delete(&inv.Lines[i]).Error; err != nil {
				return err
			}
		}
	}

	for _, d := range dtos {
		line := models.InvoiceLine{
			ID:          d.ID,
			InvoiceID:   inv.ID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitPrice:   utils.Round2(d.UnitPrice),
			VATRate:     d.VATRate,
		}
		if err := tx.Save(&line).Error; err != nil {
			return err
		}
	}
	return nil
}

// RegenerateInvoiceLines rebuilds the line set from the reservation,
// discarding manual edits.
func RegenerateInvoiceLines(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var inv models.Invoice
	if err := tx.First(&inv, c.Params("id")).Error; err != nil {
		return err
	}
	if err := services.GenerateLines(tx, &inv, true); err != nil {
		return err
	}

	if err := tx.Preload("Lines").First(&inv, inv.ID).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"invoice":     inv,
		"vat_summary": services.VATSummary(inv.Lines),
	})
}

// LockInvoice freezes the billing snapshot and records an immutable version.
func LockInvoice(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var inv models.Invoice
	if err := tx.First(&inv, c.Params("id")).Error; err != nil {
		return err
	}
	version, err := services.LockInvoice(tx, &inv)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"invoice": inv, "version": version})
}

func GetInvoiceVersions(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}

	var versions []models.InvoiceVersion
	err = database.FromCtx(c).
		Where("invoice_id = ?", id).
		Order("version_no").
		Find(&versions).Error
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"versions": versions})
}

// GetInvoicePDF is deliberately unimplemented; it reports 501 instead of
// silently producing nothing.
func GetInvoicePDF(c *fiber.Ctx) error {
	var inv models.Invoice
	if err := database.FromCtx(c).First(&inv, c.Params("id")).Error; err != nil {
		return err
	}
	_, err := inv.RenderPDF()
	return err
}

// ExportInvoicesCSV streams all invoices as CSV.
func ExportInvoicesCSV(c *fiber.Ctx) error {
	var invoices []models.Invoice
	err := database.FromCtx(c).
		Preload("Client").
		Preload("Reservation").
		Preload("Reservation.Room").
		Order("issue_date DESC").
		Find(&invoices).Error
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Series", "Number", "Issue Date", "Client", "Room", "Check-in", "Check-out", "Nights", "Total", "Currency"})
	for i := range invoices {
		inv := &invoices[i]
		_ = w.Write([]string{
			inv.Series,
			strconv.FormatUint(uint64(inv.Number), 10),
			utils.FormatDate(inv.IssueDate),
			inv.BillingName,
			inv.Reservation.Room.Number,
			utils.FormatDate(inv.Reservation.CheckIn),
			utils.FormatDate(inv.Reservation.CheckOut),
			strconv.Itoa(inv.Reservation.Nights()),
			fmt.Sprintf("%.2f", inv.Total),
			inv.Currency,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invoices.csv"`)
	return c.Send(buf.Bytes())
}
