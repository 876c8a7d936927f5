package controllers

import (
	"hotel-backend/database"
	"hotel-backend/models"
	"hotel-backend/services"
	"hotel-backend/utils"

	"github.com/gofiber/fiber/v2"
)

// GetAvailability lists free rooms for a date range, with per-stay average
// and total price. Public: the booking widget calls it without auth.
func GetAvailability(c *fiber.Ctx) error {
	start, err := utils.ParseDate(c.Query("start"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
	}
	end, err := utils.ParseDate(c.Query("end"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid date format, use YYYY-MM-DD")
	}
	if !start.Before(end) {
		return fiber.NewError(fiber.StatusBadRequest, "provide valid start and end dates (start < end)")
	}

	rooms, err := services.Availability(database.FromCtx(c), start, end, models.RoomType(c.Query("type")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"start": utils.FormatDate(start),
		"end":   utils.FormatDate(end),
		"rooms": rooms,
	})
}

func GetRevenueReport(c *fiber.Ctx) error {
	end := utils.ParseDateDefault(c.Query("end"), utils.Today())
	start := utils.ParseDateDefault(c.Query("start"), end.AddDate(0, 0, -29))

	rows, grandTotal, err := services.RevenueByDay(database.FromCtx(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"start":       utils.FormatDate(start),
		"end":         utils.FormatDate(end),
		"data":        rows,
		"grand_total": grandTotal,
	})
}

func GetOccupancyReport(c *fiber.Ctx) error {
	start := utils.ParseDateDefault(c.Query("start"), utils.Today())
	end := utils.ParseDateDefault(c.Query("end"), start.AddDate(0, 0, 14))

	rows, totalRooms, err := services.OccupancyByDay(database.FromCtx(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"start":       utils.FormatDate(start),
		"end":         utils.FormatDate(end),
		"occupancy":   rows,
		"rooms_count": totalRooms,
	})
}

func GetBreakfastReport(c *fiber.Ctx) error {
	end := utils.ParseDateDefault(c.Query("end"), utils.Today())
	start := utils.ParseDateDefault(c.Query("start"), end.AddDate(0, 0, -14))

	report, err := services.Breakfast(database.FromCtx(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func GetKPIReport(c *fiber.Ctx) error {
	end := utils.ParseDateDefault(c.Query("end"), utils.Today())
	start := utils.ParseDateDefault(c.Query("start"), end.AddDate(0, 0, -30))

	report, err := services.KPI(database.FromCtx(c), start, end)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func GetHousekeepingReport(c *fiber.Ctx) error {
	report, err := services.Housekeeping(database.FromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(report)
}
