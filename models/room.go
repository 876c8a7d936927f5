package models

import (
	"time"

	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeSingle      RoomType = "single"
	RoomTypeDouble      RoomType = "double"
	RoomTypeTwin        RoomType = "twin"
	RoomTypeSuite       RoomType = "suite"
	RoomTypeApartment   RoomType = "apartment"
	RoomTypeJuniorSuite RoomType = "junior_suite"
)

type RoomStatus string

const (
	RoomAvailable RoomStatus = "available"
	RoomOccupied  RoomStatus = "occupied"
	RoomCleaning  RoomStatus = "cleaning"
)

// Room status is derived state: it is mutated only by the reservation hooks
// (sync on status transitions) or by the explicit housekeeping override.
type Room struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Number        string     `json:"number" gorm:"size:10;not null;unique"`
	Type          RoomType   `json:"type" gorm:"size:20;not null;default:'double'"`
	PricePerNight float64    `json:"price_per_night" gorm:"type:numeric(8,2)"`
	Status        RoomStatus `json:"status" gorm:"size:15;not null;default:'available'"`
}

// PriceForDate resolves the nightly price for this room on a given date.
// Most specific active season wins: a season pinned to this room, then a
// season for the room's type, then the base price. Within each tier the
// season with the latest start date takes precedence.
func (room *Room) PriceForDate(tx *gorm.DB, d time.Time) float64 {
	classes := applyOnClasses(d)
	db := tx.Session(&gorm.Session{NewDB: true})

	var season RateSeason
	err := db.
		Where("active = ? AND room_id = ? AND start_date <= ? AND end_date >= ? AND apply_on IN ?",
			true, room.ID, d, d, classes).
		Order("start_date DESC").
		First(&season).Error
	if err == nil {
		return season.Price
	}

	err = db.
		Where("active = ? AND room_id IS NULL AND room_type = ? AND start_date <= ? AND end_date >= ? AND apply_on IN ?",
			true, room.Type, d, d, classes).
		Order("start_date DESC").
		First(&season).Error
	if err == nil {
		return season.Price
	}

	return room.PricePerNight
}
