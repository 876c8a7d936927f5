package services

import (
	"math"
	"sort"
	"time"

	"hotel-backend/models"
	"hotel-backend/utils"

	"gorm.io/gorm"
)

// AvailableRoom is one free room in an availability query, with the average
// and total stay price resolved through the rate seasons.
type AvailableRoom struct {
	ID            uint              `json:"id"`
	Number        string            `json:"number"`
	Type          models.RoomType   `json:"type"`
	Status        models.RoomStatus `json:"status"`
	PricePerNight float64           `json:"price_per_night"`
	TotalPrice    float64           `json:"total_price"`
}

// Availability lists rooms free for every night of [start, end), optionally
// filtered by room type. A room is free when no booked or checked-in
// reservation overlaps the range.
func Availability(tx *gorm.DB, start, end time.Time, roomType models.RoomType) ([]AvailableRoom, error) {
	if !start.Before(end) {
		return nil, models.ErrInvalidDateRange
	}

	blocked := tx.Model(&models.Reservation{}).
		Select("room_id").
		Where("status IN ? AND check_in < ? AND check_out > ?",
			[]models.ReservationStatus{models.ReservationBooked, models.ReservationCheckedIn}, end, start)

	q := tx.Where("id NOT IN (?)", blocked).Order("number")
	if roomType != "" {
		q = q.Where("type = ?", roomType)
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, err
	}

	nights := int(end.Sub(start).Hours() / 24)
	out := make([]AvailableRoom, 0, len(rooms))
	for i := range rooms {
		total := 0.0
		for n := 0; n < nights; n++ {
			total += rooms[i].PriceForDate(tx, start.AddDate(0, 0, n))
		}
		avg := rooms[i].PricePerNight
		if nights > 0 {
			avg = utils.Round2(total / float64(nights))
		}
		out = append(out, AvailableRoom{
			ID:            rooms[i].ID,
			Number:        rooms[i].Number,
			Type:          rooms[i].Type,
			Status:        rooms[i].Status,
			PricePerNight: avg,
			TotalPrice:    utils.Round2(total),
		})
	}
	return out, nil
}

// DayRevenue is invoiced revenue for one calendar day.
type DayRevenue struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// RevenueByDay sums invoice totals per issue date over [start, end]
// inclusive, with a zero row for days without invoices. Also returns the
// window grand total.
func RevenueByDay(tx *gorm.DB, start, end time.Time) ([]DayRevenue, float64, error) {
	start, end = utils.DateOf(start), utils.DateOf(end)
	if end.Before(start) {
		start, end = end, start
	}

	var invoices []models.Invoice
	err := tx.Where("issue_date >= ? AND issue_date < ?", start, end.AddDate(0, 0, 1)).
		Find(&invoices).Error
	if err != nil {
		return nil, 0, err
	}

	byDay := map[string]float64{}
	for i := range invoices {
		byDay[utils.FormatDate(utils.DateOf(invoices[i].IssueDate))] += invoices[i].Total
	}

	var rows []DayRevenue
	grand := 0.0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		total := utils.Round2(byDay[utils.FormatDate(d)])
		rows = append(rows, DayRevenue{Date: utils.FormatDate(d), Total: total})
		grand += total
	}
	return rows, utils.Round2(grand), nil
}

// DayOccupancy is the occupancy picture for one calendar day.
type DayOccupancy struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// OccupancyByDay counts distinct occupied rooms per day over [start, end)
// against the total room count.
func OccupancyByDay(tx *gorm.DB, start, end time.Time) ([]DayOccupancy, int, error) {
	start, end = utils.DateOf(start), utils.DateOf(end)
	if !start.Before(end) {
		end = start.AddDate(0, 0, 1)
	}

	var totalRooms int64
	if err := tx.Model(&models.Room{}).Count(&totalRooms).Error; err != nil {
		return nil, 0, err
	}
	denominator := totalRooms
	if denominator == 0 {
		denominator = 1
	}

	var active []models.Reservation
	err := tx.Where("status IN ? AND check_in < ? AND check_out > ?",
		[]models.ReservationStatus{models.ReservationBooked, models.ReservationCheckedIn}, end, start).
		Find(&active).Error
	if err != nil {
		return nil, 0, err
	}

	var rows []DayOccupancy
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		occupied := map[uint]bool{}
		for i := range active {
			if !active[i].CheckIn.After(d) && active[i].CheckOut.After(d) {
				occupied[active[i].RoomID] = true
			}
		}
		percent := int(math.Round(float64(len(occupied)) / float64(denominator) * 100))
		rows = append(rows, DayOccupancy{Date: utils.FormatDate(d), Count: len(occupied), Percent: percent})
	}
	return rows, int(totalRooms), nil
}

// BreakfastDay is breakfast volume and revenue for one day.
type BreakfastDay struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// BreakfastGroup is breakfast volume and revenue for one room or client.
type BreakfastGroup struct {
	Label   string  `json:"label"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// BreakfastReport aggregates breakfast usage over a date window.
type BreakfastReport struct {
	Start        string           `json:"start"`
	End          string           `json:"end"`
	Days         []BreakfastDay   `json:"days"`
	ByRoom       []BreakfastGroup `json:"by_room"`
	ByClient     []BreakfastGroup `json:"by_client"`
	TotalCount   int              `json:"total_count"`
	TotalRevenue float64          `json:"total_revenue"`
}

// Breakfast counts breakfasts served per day, per room and per client over
// the inclusive window [start, end]. Every stayed night of a non-canceled
// reservation with breakfast counts one breakfast at the per-night price.
func Breakfast(tx *gorm.DB, start, end time.Time) (*BreakfastReport, error) {
	start, end = utils.DateOf(start), utils.DateOf(end)
	if end.Before(start) {
		start, end = end, start
	}

	var reservations []models.Reservation
	err := tx.Preload("Room").Preload("Client").
		Where("breakfast_included = ? AND status <> ? AND check_in <= ? AND check_out > ?",
			true, models.ReservationCanceled, end, start).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	perDayCount := map[string]int{}
	perDayRevenue := map[string]float64{}
	byRoom := map[string]*BreakfastGroup{}
	byClient := map[string]*BreakfastGroup{}

	for i := range reservations {
		r := &reservations[i]
		for night := r.CheckIn; night.Before(r.CheckOut); night = night.AddDate(0, 0, 1) {
			if night.Before(start) || night.After(end) {
				continue
			}
			key := utils.FormatDate(night)
			perDayCount[key]++
			perDayRevenue[key] += r.BreakfastPrice

			rg, ok := byRoom[r.Room.Number]
			if !ok {
				rg = &BreakfastGroup{Label: r.Room.Number}
				byRoom[r.Room.Number] = rg
			}
			rg.Count++
			rg.Revenue += r.BreakfastPrice

			name := r.Client.DisplayName()
			cg, ok := byClient[name]
			if !ok {
				cg = &BreakfastGroup{Label: name}
				byClient[name] = cg
			}
			cg.Count++
			cg.Revenue += r.BreakfastPrice
		}
	}

	report := &BreakfastReport{Start: utils.FormatDate(start), End: utils.FormatDate(end)}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := utils.FormatDate(d)
		report.Days = append(report.Days, BreakfastDay{
			Date:    key,
			Count:   perDayCount[key],
			Revenue: utils.Round2(perDayRevenue[key]),
		})
		report.TotalCount += perDayCount[key]
		report.TotalRevenue += perDayRevenue[key]
	}
	report.TotalRevenue = utils.Round2(report.TotalRevenue)
	report.ByRoom = sortedGroups(byRoom)
	report.ByClient = sortedGroups(byClient)
	return report, nil
}

// sortedGroups orders grouped rows by count descending, then label.
func sortedGroups(groups map[string]*BreakfastGroup) []BreakfastGroup {
	out := make([]BreakfastGroup, 0, len(groups))
	for _, g := range groups {
		g.Revenue = utils.Round2(g.Revenue)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// KPIReport is the headline performance set for a date window.
type KPIReport struct {
	Start             string  `json:"start"`
	End               string  `json:"end"`
	NightsSold        int     `json:"nights_sold"`
	Revenue           float64 `json:"revenue"`
	ADR               float64 `json:"adr"`
	Arrivals          int     `json:"arrivals"`
	AverageLengthStay float64 `json:"average_length_of_stay"`
}

// KPI computes nights sold, accommodation revenue, ADR, arrivals and average
// length of stay over the half-open window [start, end). Revenue prices each
// sold night through the rate resolver; canceled reservations do not count.
func KPI(tx *gorm.DB, start, end time.Time) (*KPIReport, error) {
	start, end = utils.DateOf(start), utils.DateOf(end)
	if !start.Before(end) {
		return nil, models.ErrInvalidDateRange
	}

	var reservations []models.Reservation
	err := tx.Preload("Room").
		Where("status <> ? AND check_in < ? AND check_out > ?", models.ReservationCanceled, end, start).
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}

	report := &KPIReport{Start: utils.FormatDate(start), End: utils.FormatDate(end)}
	stayNights := 0
	stays := 0
	for i := range reservations {
		r := &reservations[i]
		for night := r.CheckIn; night.Before(r.CheckOut); night = night.AddDate(0, 0, 1) {
			if night.Before(start) || !night.Before(end) {
				continue
			}
			report.NightsSold++
			report.Revenue += r.Room.PriceForDate(tx, night)
		}
		if !r.CheckIn.Before(start) && r.CheckIn.Before(end) {
			report.Arrivals++
			stayNights += r.Nights()
			stays++
		}
	}
	report.Revenue = utils.Round2(report.Revenue)
	if report.NightsSold > 0 {
		report.ADR = utils.Round2(report.Revenue / float64(report.NightsSold))
	}
	if stays > 0 {
		report.AverageLengthStay = utils.Round2(float64(stayNights) / float64(stays))
	}
	return report, nil
}

// HousekeepingReport groups rooms by their current housekeeping status.
type HousekeepingReport struct {
	Counts map[models.RoomStatus]int           `json:"counts"`
	Rooms  map[models.RoomStatus][]models.Room `json:"rooms"`
}

// Housekeeping lists every room under its current status bucket.
func Housekeeping(tx *gorm.DB) (*HousekeepingReport, error) {
	var rooms []models.Room
	if err := tx.Order("number").Find(&rooms).Error; err != nil {
		return nil, err
	}

	report := &HousekeepingReport{
		Counts: map[models.RoomStatus]int{models.RoomAvailable: 0, models.RoomOccupied: 0, models.RoomCleaning: 0},
		Rooms:  map[models.RoomStatus][]models.Room{},
	}
	for i := range rooms {
		report.Counts[rooms[i].Status]++
		report.Rooms[rooms[i].Status] = append(report.Rooms[rooms[i].Status], rooms[i])
	}
	return report, nil
}
