package models

import (
	"testing"
	"time"

	"hotel-backend/utils"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestPriceForDateFallback(t *testing.T) {
	db := newTestDB(t)
	room := Room{Number: "101", Type: RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)

	if got := room.PriceForDate(db, day(t, "2024-06-01")); got != 100 {
		t.Fatalf("expected base price 100, got %v", got)
	}
}

func TestPriceForDateRoomSeasonBeatsTypeSeason(t *testing.T) {
	db := newTestDB(t)
	room := Room{Number: "101", Type: RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)

	// Type-wide weekend season across the whole window.
	mustCreate(t, db, &RateSeason{
		Name:      "Summer weekends",
		RoomType:  RoomTypeDouble,
		StartDate: day(t, "2024-06-01"),
		EndDate:   day(t, "2024-06-10"),
		Price:     150,
		ApplyOn:   ApplyOnWeekends,
		Active:    true,
	})
	// Room-pinned season over a slice of it.
	mustCreate(t, db, &RateSeason{
		Name:      "Room 101 promo",
		RoomID:    &room.ID,
		StartDate: day(t, "2024-06-02"),
		EndDate:   day(t, "2024-06-03"),
		Price:     120,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	})

	// 2024-06-02 is a Sunday: both seasons cover it, the room-pinned one wins.
	if got := room.PriceForDate(db, day(t, "2024-06-02")); got != 120 {
		t.Fatalf("expected room-specific price 120, got %v", got)
	}
	// 2024-06-08 is a Saturday outside the promo: the weekend type rate applies.
	if got := room.PriceForDate(db, day(t, "2024-06-08")); got != 150 {
		t.Fatalf("expected weekend type price 150, got %v", got)
	}
	// 2024-06-05 is a Wednesday: no season matches, base price applies.
	if got := room.PriceForDate(db, day(t, "2024-06-05")); got != 100 {
		t.Fatalf("expected base price 100 on a weekday, got %v", got)
	}
}

func TestPriceForDateLatestStartDateWins(t *testing.T) {
	db := newTestDB(t)
	room := Room{Number: "102", Type: RoomTypeSingle, PricePerNight: 80}
	mustCreate(t, db, &room)

	mustCreate(t, db, &RateSeason{
		Name:      "Early summer",
		RoomType:  RoomTypeSingle,
		StartDate: day(t, "2024-06-01"),
		EndDate:   day(t, "2024-08-31"),
		Price:     90,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	})
	mustCreate(t, db, &RateSeason{
		Name:      "Peak",
		RoomType:  RoomTypeSingle,
		StartDate: day(t, "2024-07-01"),
		EndDate:   day(t, "2024-08-15"),
		Price:     110,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	})

	if got := room.PriceForDate(db, day(t, "2024-07-10")); got != 110 {
		t.Fatalf("expected the later-starting season to win, got %v", got)
	}
	if got := room.PriceForDate(db, day(t, "2024-06-10")); got != 90 {
		t.Fatalf("expected the early season, got %v", got)
	}
}

func TestPriceForDateIgnoresInactiveSeasons(t *testing.T) {
	db := newTestDB(t)
	room := Room{Number: "103", Type: RoomTypeTwin, PricePerNight: 70}
	mustCreate(t, db, &room)

	season := RateSeason{
		Name:      "Disabled",
		RoomID:    &room.ID,
		StartDate: day(t, "2024-06-01"),
		EndDate:   day(t, "2024-06-30"),
		Price:     200,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	}
	mustCreate(t, db, &season)
	if err := db.Model(&season).Update("active", false).Error; err != nil {
		t.Fatalf("deactivate season: %v", err)
	}

	if got := room.PriceForDate(db, day(t, "2024-06-15")); got != 70 {
		t.Fatalf("inactive season must not apply, got %v", got)
	}
}

func TestPriceForDateDeterministic(t *testing.T) {
	db := newTestDB(t)
	room := Room{Number: "104", Type: RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)
	mustCreate(t, db, &RateSeason{
		Name:      "June",
		RoomID:    &room.ID,
		StartDate: day(t, "2024-06-01"),
		EndDate:   day(t, "2024-06-30"),
		Price:     130,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	})

	first := room.PriceForDate(db, day(t, "2024-06-15"))
	second := room.PriceForDate(db, day(t, "2024-06-15"))
	if first != second || first != 130 {
		t.Fatalf("resolver not deterministic: %v then %v", first, second)
	}
}

func TestRateSeasonRequiresTarget(t *testing.T) {
	db := newTestDB(t)

	err := db.Create(&RateSeason{
		Name:      "No target",
		StartDate: day(t, "2024-06-01"),
		EndDate:   day(t, "2024-06-30"),
		Price:     50,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	}).Error
	if err != ErrMissingSeasonTarget {
		t.Fatalf("expected ErrMissingSeasonTarget, got %v", err)
	}
}

func TestRateSeasonRejectsInvertedRange(t *testing.T) {
	db := newTestDB(t)
	room := Room{Number: "105", Type: RoomTypeDouble, PricePerNight: 100}
	mustCreate(t, db, &room)

	err := db.Create(&RateSeason{
		Name:      "Backwards",
		RoomID:    &room.ID,
		StartDate: day(t, "2024-06-30"),
		EndDate:   day(t, "2024-06-01"),
		Price:     50,
		ApplyOn:   ApplyOnAll,
		Active:    true,
	}).Error
	if err != ErrInvalidDateRange {
		t.Fatalf("expected ErrInvalidDateRange, got %v", err)
	}
}
