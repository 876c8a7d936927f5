package models

import (
	"time"

	"gorm.io/gorm"
)

type ApplyOn string

const (
	ApplyOnAll      ApplyOn = "all"
	ApplyOnWeekdays ApplyOn = "weekdays"
	ApplyOnWeekends ApplyOn = "weekends"
)

// RateSeason is a seasonal pricing rule. A season pinned to a room overrides
// any room-type season for that room; a season with only a room type applies
// to all rooms of that type. The date range is inclusive on both ends.
type RateSeason struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	RoomID    *uint     `json:"room_id" gorm:"index"`
	Room      *Room     `json:"-" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	RoomType  RoomType  `json:"room_type" gorm:"size:20"`
	StartDate time.Time `json:"start_date" gorm:"type:date;not null;index"`
	EndDate   time.Time `json:"end_date" gorm:"type:date;not null"`
	Price     float64   `json:"price" gorm:"type:numeric(8,2)"`
	ApplyOn   ApplyOn   `json:"apply_on" gorm:"size:10;not null;default:'all'"`
	Active    bool      `json:"active" gorm:"default:true"`
}

func (season *RateSeason) BeforeSave(tx *gorm.DB) error {
	if season.RoomID == nil && season.RoomType == "" {
		return ErrMissingSeasonTarget
	}
	if !season.StartDate.Before(season.EndDate) {
		return ErrInvalidDateRange
	}
	return nil
}

// applyOnClasses returns the apply-on values that match the date's weekday
// class. Mon-Fri count as weekdays, Sat-Sun as weekends.
func applyOnClasses(d time.Time) []ApplyOn {
	if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return []ApplyOn{ApplyOnAll, ApplyOnWeekends}
	}
	return []ApplyOn{ApplyOnAll, ApplyOnWeekdays}
}
