package models

import (
	"time"

	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationBooked     ReservationStatus = "booked"
	ReservationCheckedIn  ReservationStatus = "checked_in"
	ReservationCheckedOut ReservationStatus = "checked_out"
	ReservationCanceled   ReservationStatus = "canceled"
)

// activeStatuses are the statuses that block a room for their date range.
var activeStatuses = []ReservationStatus{ReservationBooked, ReservationCheckedIn}

// Reservation holds a room for [CheckIn, CheckOut): the check-in day is a
// night, the check-out day is not.
type Reservation struct {
	ID       uint              `json:"id" gorm:"primaryKey"`
	ClientID string            `json:"client_id" gorm:"not null;index"`
	Client   Client            `json:"client" gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	RoomID   uint              `json:"room_id" gorm:"not null;index"`
	Room     Room              `json:"room" gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT"`
	CheckIn  time.Time         `json:"check_in" gorm:"type:date;not null"`
	CheckOut time.Time         `json:"check_out" gorm:"type:date;not null"`
	Status   ReservationStatus `json:"status" gorm:"size:20;not null;default:'booked';index"`

	BreakfastIncluded bool    `json:"breakfast_included"`
	BreakfastPrice    float64 `json:"breakfast_price" gorm:"type:numeric(8,2)"`

	// Set once on the transition to canceled; the night audit counts the day's
	// cancellations from this, not from the generic update timestamp.
	CanceledAt *time.Time `json:"canceled_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Status before the pending mutation, captured by SetStatus. Unexported,
	// never persisted; consumed by AfterSave to decide whether to sync the room.
	prevStatus ReservationStatus
}

// Nights is the stay length in nights, never negative.
func (r *Reservation) Nights() int {
	n := int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

// SetStatus records a status transition. All status changes must go through
// here so the room synchronizer receives the (old, new) pair explicitly
// instead of re-reading prior state.
func (r *Reservation) SetStatus(next ReservationStatus) {
	r.prevStatus = r.Status
	r.Status = next
	if next == ReservationCanceled && r.CanceledAt == nil {
		now := time.Now().UTC()
		r.CanceledAt = &now
	}
}

// BeforeSave validates date ordering and availability inside the same
// transaction as the write, so the check and the insert cannot be split by a
// concurrent writer. The exclusion constraint in database.Migrate is the
// storage-level backstop for the same race.
func (r *Reservation) BeforeSave(tx *gorm.DB) error {
	if !r.CheckIn.Before(r.CheckOut) {
		return ErrInvalidDateRange
	}
	if r.Status == "" {
		r.Status = ReservationBooked
	}

	q := tx.Session(&gorm.Session{NewDB: true}).
		Model(&Reservation{}).
		Where("room_id = ? AND status IN ? AND check_in < ? AND check_out > ?",
			r.RoomID, activeStatuses, r.CheckOut, r.CheckIn)
	if r.ID != 0 {
		q = q.Where("id <> ?", r.ID)
	}
	var overlapping int64
	if err := q.Count(&overlapping).Error; err != nil {
		return err
	}
	if overlapping > 0 {
		return ErrRoomUnavailable
	}
	return nil
}

// AfterSave keeps the room status consistent with the reservation, whatever
// code path performed the write.
func (r *Reservation) AfterSave(tx *gorm.DB) error {
	if r.prevStatus == r.Status {
		return nil
	}
	return syncRoomOnTransition(tx, r.RoomID, r.Status)
}

// AfterDelete re-evaluates room availability when a reservation disappears.
// A room left in cleaning stays in cleaning; only the absence of a checked-in
// reservation can free it.
func (r *Reservation) AfterDelete(tx *gorm.DB) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	var room Room
	if err := db.First(&room, r.RoomID).Error; err != nil {
		return err
	}
	if room.Status == RoomAvailable || room.Status == RoomCleaning {
		return nil
	}
	return releaseRoomIfIdle(db, &room)
}

func syncRoomOnTransition(tx *gorm.DB, roomID uint, next ReservationStatus) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	var room Room
	if err := db.First(&room, roomID).Error; err != nil {
		return err
	}
	switch next {
	case ReservationCheckedIn:
		if room.Status != RoomOccupied {
			return db.Model(&room).Update("status", RoomOccupied).Error
		}
	case ReservationCheckedOut:
		if room.Status != RoomCleaning {
			return db.Model(&room).Update("status", RoomCleaning).Error
		}
	case ReservationCanceled:
		return releaseRoomIfIdle(db, &room)
	}
	return nil
}

// SyncRoomAvailability re-evaluates whether the room can be released. Safe to
// call even when the reservation hooks will (or already did) run the same
// check; releasing an idle room twice is a no-op.
func SyncRoomAvailability(tx *gorm.DB, roomID uint) error {
	db := tx.Session(&gorm.Session{NewDB: true})
	var room Room
	if err := db.First(&room, roomID).Error; err != nil {
		return err
	}
	return releaseRoomIfIdle(db, &room)
}

// releaseRoomIfIdle sets the room available unless some reservation for it is
// still checked in.
func releaseRoomIfIdle(db *gorm.DB, room *Room) error {
	var checkedIn int64
	err := db.Model(&Reservation{}).
		Where("room_id = ? AND status = ?", room.ID, ReservationCheckedIn).
		Count(&checkedIn).Error
	if err != nil {
		return err
	}
	if checkedIn == 0 && room.Status != RoomAvailable {
		return db.Model(room).Update("status", RoomAvailable).Error
	}
	return nil
}
