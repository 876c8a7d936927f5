package services

import (
	"errors"
	"math"
	"time"

	"hotel-backend/models"
	"hotel-backend/utils"

	"gorm.io/gorm"
)

// ErrAlreadyClosed marks a second close attempt for the same date. The day
// stays exactly as the first close left it; the caller reports a warning.
var ErrAlreadyClosed = errors.New("night audit already closed for this date")

// AuditMetrics is the point-in-time metric set for one calendar date, as shown
// on the preview and persisted by the close.
type AuditMetrics struct {
	Date             time.Time `json:"date"`
	AlreadyClosed    bool      `json:"already_closed"`
	OccupiedRooms    int       `json:"occupied_rooms"`
	TotalRooms       int       `json:"total_rooms"`
	OccupancyPercent int       `json:"occupancy_percent"`
	Revenue          float64   `json:"revenue"`
	ADR              float64   `json:"adr"`
	RevPAR           float64   `json:"revpar"`
	Arrivals         int       `json:"arrivals"`
	Departures       int       `json:"departures"`
	Stayovers        int       `json:"stayovers"`
	NoShows          int       `json:"no_shows"`
}

// PreviewAudit computes the night-audit metrics for a date without closing
// it. No-shows here are candidates: booked arrivals that would be canceled by
// a close at this moment.
func PreviewAudit(tx *gorm.DB, date time.Time) (*AuditMetrics, error) {
	date = utils.DateOf(date)

	m, err := computeOccupancy(tx, date)
	if err != nil {
		return nil, err
	}

	if m.Arrivals, err = countArrivals(tx, date); err != nil {
		return nil, err
	}
	if m.Departures, err = countDepartures(tx, date); err != nil {
		return nil, err
	}
	if m.Stayovers, err = countStayovers(tx, date); err != nil {
		return nil, err
	}

	var noShows int64
	err = tx.Model(&models.Reservation{}).
		Where("check_in = ? AND status = ?", date, models.ReservationBooked).
		Count(&noShows).Error
	if err != nil {
		return nil, err
	}
	m.NoShows = int(noShows)

	var closed int64
	if err := tx.Model(&models.NightAudit{}).Where("date = ?", date).Count(&closed).Error; err != nil {
		return nil, err
	}
	m.AlreadyClosed = closed > 0

	return m, nil
}

// CloseAudit performs the irreversible end-of-day close for a date: it
// snapshots the occupancy and revenue metrics, auto-cancels the day's
// no-shows through the cancel workflow, and persists one immutable NightAudit
// row whose arrival/departure/stayover counts reflect the state after those
// cancellations. If the date is already closed it returns ErrAlreadyClosed
// before touching anything. Run inside one transaction.
func CloseAudit(tx *gorm.DB, date time.Time) (*models.NightAudit, []Notice, error) {
	date = utils.DateOf(date)

	var closed int64
	if err := tx.Model(&models.NightAudit{}).Where("date = ?", date).Count(&closed).Error; err != nil {
		return nil, nil, err
	}
	if closed > 0 {
		return nil, nil, ErrAlreadyClosed
	}

	// Occupancy and revenue are the day's trading picture, taken before the
	// no-show cancellations remove the booked arrivals from it.
	m, err := computeOccupancy(tx, date)
	if err != nil {
		return nil, nil, err
	}

	// Cancellations already on the books for this day, before the close adds
	// the no-shows. Counted from CanceledAt, which only the status transition
	// sets, so unrelated edits cannot inflate it.
	var priorCancellations int64
	err = tx.Model(&models.Reservation{}).
		Where("status = ? AND canceled_at >= ? AND canceled_at < ?",
			models.ReservationCanceled, date, date.AddDate(0, 0, 1)).
		Count(&priorCancellations).Error
	if err != nil {
		return nil, nil, err
	}

	var noShows []models.Reservation
	err = tx.Preload("Room").
		Where("check_in = ? AND status = ?", date, models.ReservationBooked).
		Find(&noShows).Error
	if err != nil {
		return nil, nil, err
	}

	notices := make([]Notice, 0, len(noShows)+1)
	for i := range noShows {
		notice, err := Cancel(tx, &noShows[i])
		if err != nil {
			return nil, nil, err
		}
		notices = append(notices, notice)
	}
	m.NoShows = len(noShows)

	// Activity counts after the no-show cancellations have been applied.
	if m.Arrivals, err = countArrivals(tx, date); err != nil {
		return nil, nil, err
	}
	if m.Departures, err = countDepartures(tx, date); err != nil {
		return nil, nil, err
	}
	if m.Stayovers, err = countStayovers(tx, date); err != nil {
		return nil, nil, err
	}

	audit := models.NightAudit{
		Date:             date,
		OccupiedRooms:    m.OccupiedRooms,
		TotalRooms:       m.TotalRooms,
		OccupancyPercent: m.OccupancyPercent,
		Revenue:          m.Revenue,
		ADR:              m.ADR,
		RevPAR:           m.RevPAR,
		Arrivals:         m.Arrivals,
		Departures:       m.Departures,
		Stayovers:        m.Stayovers,
		NoShows:          m.NoShows,
		Cancellations:    int(priorCancellations) + m.NoShows,
	}
	if err := tx.Create(&audit).Error; err != nil {
		return nil, nil, err
	}

	notices = append(notices, Notice{NoticeSuccess, "Night audit completed for " + utils.FormatDate(date) + "."})
	return &audit, notices, nil
}

// computeOccupancy fills the room/revenue side of the metric set: distinct
// occupied rooms, rate-resolver revenue for the night, occupancy percentage,
// ADR and RevPAR.
func computeOccupancy(tx *gorm.DB, date time.Time) (*AuditMetrics, error) {
	var totalRooms int64
	if err := tx.Model(&models.Room{}).Count(&totalRooms).Error; err != nil {
		return nil, err
	}
	denominator := totalRooms
	if denominator == 0 {
		denominator = 1
	}

	var active []models.Reservation
	err := tx.Preload("Room").
		Where("status IN ? AND check_in <= ? AND check_out > ?",
			[]models.ReservationStatus{models.ReservationBooked, models.ReservationCheckedIn}, date, date).
		Find(&active).Error
	if err != nil {
		return nil, err
	}

	occupied := map[uint]bool{}
	revenue := 0.0
	for i := range active {
		occupied[active[i].RoomID] = true
		revenue += active[i].Room.PriceForDate(tx, date)
	}
	revenue = utils.Round2(revenue)

	m := &AuditMetrics{
		Date:             date,
		OccupiedRooms:    len(occupied),
		TotalRooms:       int(totalRooms),
		OccupancyPercent: int(math.Round(float64(len(occupied)) / float64(denominator) * 100)),
		Revenue:          revenue,
		RevPAR:           utils.Round2(revenue / float64(denominator)),
	}
	if m.OccupiedRooms > 0 {
		m.ADR = utils.Round2(revenue / float64(m.OccupiedRooms))
	}
	return m, nil
}

func countArrivals(tx *gorm.DB, date time.Time) (int, error) {
	var n int64
	err := tx.Model(&models.Reservation{}).
		Where("check_in = ? AND status <> ?", date, models.ReservationCanceled).
		Count(&n).Error
	return int(n), err
}

func countDepartures(tx *gorm.DB, date time.Time) (int, error) {
	var n int64
	err := tx.Model(&models.Reservation{}).
		Where("check_out = ? AND status <> ?", date, models.ReservationCanceled).
		Count(&n).Error
	return int(n), err
}

func countStayovers(tx *gorm.DB, date time.Time) (int, error) {
	var n int64
	err := tx.Model(&models.Reservation{}).
		Where("check_in < ? AND check_out > ? AND status IN ?",
			date, date,
			[]models.ReservationStatus{models.ReservationBooked, models.ReservationCheckedIn}).
		Count(&n).Error
	return int(n), err
}
