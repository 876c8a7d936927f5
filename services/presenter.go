package services

import (
	"errors"
	"fmt"

	"hotel-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is the human-readable outcome of a workflow, handed to the
// notification sink for display. Warnings and errors from invalid-state
// transitions are informational: they report why nothing happened, they are
// not failures and they never roll the transaction back.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// CreateReservation persists a new reservation in booked status and creates
// its invoice with generated lines, all-or-nothing within the given
// transaction. The unique index on invoices.reservation_id guarantees the
// invoice is created exactly once even if a competing path raced us here.
func CreateReservation(tx *gorm.DB, res *models.Reservation) (*models.Invoice, Notice, error) {
	res.Status = models.ReservationBooked
	if err := tx.Create(res).Error; err != nil {
		return nil, Notice{}, err
	}

	var count int64
	if err := tx.Model(&models.Invoice{}).Where("reservation_id = ?", res.ID).Count(&count).Error; err != nil {
		return nil, Notice{}, err
	}
	if count > 0 {
		return nil, Notice{}, errors.New("invoice already exists for reservation")
	}

	inv := models.Invoice{
		ReservationID: res.ID,
		ClientID:      res.ClientID,
	}
	if err := tx.Create(&inv).Error; err != nil {
		return nil, Notice{}, err
	}
	if err := GenerateLines(tx, &inv, false); err != nil {
		return nil, Notice{}, err
	}

	return &inv, Notice{NoticeSuccess, "Reservation created and invoice generated."}, nil
}

// CheckIn moves a booked reservation to checked_in; the reservation hooks set
// the room occupied. Canceled and checked-out reservations cannot check in;
// that case reports an error notice without mutating anything.
func CheckIn(tx *gorm.DB, res *models.Reservation) (Notice, error) {
	if res.Status == models.ReservationCanceled || res.Status == models.ReservationCheckedOut {
		return Notice{NoticeError, "Cannot check in a canceled or checked-out reservation."}, nil
	}

	res.SetStatus(models.ReservationCheckedIn)
	if err := tx.Omit(clause.Associations).Save(res).Error; err != nil {
		return Notice{}, err
	}
	return Notice{NoticeSuccess, fmt.Sprintf("Guest checked in. Room %s is now occupied.", res.Room.Number)}, nil
}

// CheckOut moves a checked-in reservation to checked_out; the room goes to
// cleaning via the hooks. Only checked-in reservations can check out.
func CheckOut(tx *gorm.DB, res *models.Reservation) (Notice, error) {
	if res.Status != models.ReservationCheckedIn {
		return Notice{NoticeError, "Only checked-in reservations can be checked out."}, nil
	}

	res.SetStatus(models.ReservationCheckedOut)
	if err := tx.Omit(clause.Associations).Save(res).Error; err != nil {
		return Notice{}, err
	}
	return Notice{NoticeSuccess, fmt.Sprintf("Guest checked out. Room %s set to cleaning.", res.Room.Number)}, nil
}

// Cancel cancels a reservation. Already-canceled reservations are an
// informational no-op. The room release runs once more here on top of the
// hook's own sync; both applications are idempotent.
func Cancel(tx *gorm.DB, res *models.Reservation) (Notice, error) {
	if res.Status == models.ReservationCanceled {
		return Notice{NoticeInfo, "Reservation already canceled."}, nil
	}

	res.SetStatus(models.ReservationCanceled)
	if err := tx.Omit(clause.Associations).Save(res).Error; err != nil {
		return Notice{}, err
	}
	if err := models.SyncRoomAvailability(tx, res.RoomID); err != nil {
		return Notice{}, err
	}
	return Notice{NoticeSuccess, "Reservation canceled."}, nil
}

// MarkRoomCleaned is the manual housekeeping override: the room becomes
// available unconditionally, whatever the reservation state says.
func MarkRoomCleaned(tx *gorm.DB, room *models.Room) (Notice, error) {
	if err := tx.Model(room).Update("status", models.RoomAvailable).Error; err != nil {
		return Notice{}, err
	}
	return Notice{NoticeSuccess, fmt.Sprintf("Room %s marked as available after cleaning.", room.Number)}, nil
}
