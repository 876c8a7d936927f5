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
)

// PreviewNightAudit shows the metric set a close would record right now,
// without mutating anything.
func PreviewNightAudit(c *fiber.Ctx) error {
	date := utils.ParseDateDefault(c.Query("date"), utils.Today())

	metrics, err := services.PreviewAudit(database.FromCtx(c), date)
	if err != nil {
		return err
	}
	return c.JSON(metrics)
}

type nightAuditCloseDTO struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

// CloseNightAudit performs the irreversible end-of-day close.
func CloseNightAudit(c *fiber.Ctx) error {
	var dto nightAuditCloseDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	date := utils.Today()
	if dto.Date != "" {
		var err error
		if date, err = utils.ParseDate(dto.Date); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date")
		}
	}

	audit, notices, err := services.CloseAudit(database.FromCtx(c), date)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"audit":   audit,
		"notices": notices,
	})
}

func GetNightAudits(c *fiber.Ctx) error {
	var audits []models.NightAudit
	if err := database.FromCtx(c).Order("date DESC").Find(&audits).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"audits": audits})
}

func GetNightAudit(c *fiber.Ctx) error {
	var audit models.NightAudit
	if err := database.FromCtx(c).First(&audit, c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(audit)
}

// ExportNightAuditsCSV streams the audit history, optionally bounded by
// start/end query dates.
func ExportNightAuditsCSV(c *fiber.Ctx) error {
	q := database.FromCtx(c).Model(&models.NightAudit{}).Order("date DESC")
	if start, err := utils.ParseDate(c.Query("start")); err == nil {
		q = q.Where("date >= ?", start)
	}
	if end, err := utils.ParseDate(c.Query("end")); err == nil {
		q = q.Where("date <= ?", end)
	}

	var audits []models.NightAudit
	if err := q.Find(&audits).Error; err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"Date", "Occupancy %", "Occupied", "Total Rooms", "Revenue", "ADR", "RevPAR", "Arrivals", "Departures", "Stayovers", "No-shows", "Cancellations"})
	for i := range audits {
		a := &audits[i]
		_ = w.Write([]string{
			utils.FormatDate(a.Date),
			strconv.Itoa(a.OccupancyPercent),
			strconv.Itoa(a.OccupiedRooms),
			strconv.Itoa(a.TotalRooms),
			fmt.Sprintf("%.2f", a.Revenue),
			fmt.Sprintf("%.2f", a.ADR),
			fmt.Sprintf("%.2f", a.RevPAR),
			strconv.Itoa(a.Arrivals),
			strconv.Itoa(a.Departures),
			strconv.Itoa(a.Stayovers),
			strconv.Itoa(a.NoShows),
			strconv.Itoa(a.Cancellations),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="night_audit.csv"`)
	return c.Send(buf.Bytes())
}
