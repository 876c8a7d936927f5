package models

import "time"

// NightAudit is the end-of-day snapshot for one calendar date. One row per
// date, written once by the closing operation and never updated. The metrics
// are individual columns rather than a JSON bag so the schema cannot drift
// silently.
type NightAudit struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Date     time.Time `json:"date" gorm:"type:date;not null;uniqueIndex"`
	ClosedAt time.Time `json:"closed_at" gorm:"autoCreateTime"`

	OccupiedRooms    int     `json:"occupied_rooms"`
	TotalRooms       int     `json:"total_rooms"`
	OccupancyPercent int     `json:"occupancy_percent"`
	Revenue          float64 `json:"revenue" gorm:"type:numeric(12,2)"`
	ADR              float64 `json:"adr" gorm:"column:adr;type:numeric(10,2)"`
	RevPAR           float64 `json:"revpar" gorm:"column:revpar;type:numeric(10,2)"`
	Arrivals         int     `json:"arrivals"`
	Departures       int     `json:"departures"`
	Stayovers        int     `json:"stayovers"`
	NoShows          int     `json:"no_shows"`
	Cancellations    int     `json:"cancellations"`

	Notes string `json:"notes"`
}
