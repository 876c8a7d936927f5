package controllers

import (
	"hotel-backend/database"
	"hotel-backend/middlewares"
	"hotel-backend/models"
	"hotel-backend/services"
	"hotel-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type reservationCreateDTO struct {
	ClientID          string  `json:"client_id" validate:"required,uuid4"`
	RoomID            uint    `json:"room_id" validate:"required"`
	CheckIn           string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut          string  `json:"check_out" validate:"required,datetime=2006-01-02"`
	BreakfastIncluded bool    `json:"breakfast_included"`
	BreakfastPrice    float64 `json:"breakfast_price" validate:"gte=0"`
}

type reservationUpdateDTO struct {
	ClientID          *string  `json:"client_id" validate:"omitempty,uuid4"`
	RoomID            *uint    `json:"room_id"`
	CheckIn           *string  `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut          *string  `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Status            *string  `json:"status" validate:"omitempty,oneof=booked checked_in checked_out canceled"`
	BreakfastIncluded *bool    `json:"breakfast_included"`
	BreakfastPrice    *float64 `json:"breakfast_price" validate:"omitempty,gte=0"`
}

// CreateReservation runs the booking workflow: validation, persistence and
// invoice generation happen inside the request transaction.
func CreateReservation(c *fiber.Ctx) error {
	var dto reservationCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	checkIn, err := utils.ParseDate(dto.CheckIn)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid check_in")
	}
	checkOut, err := utils.ParseDate(dto.CheckOut)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid check_out")
	}

	res := models.Reservation{
		ClientID:          dto.ClientID,
		RoomID:            dto.RoomID,
		CheckIn:           checkIn,
		CheckOut:          checkOut,
		BreakfastIncluded: dto.BreakfastIncluded,
		BreakfastPrice:    utils.Round2(dto.BreakfastPrice),
	}

	tx := database.FromCtx(c)
	inv, notice, err := services.CreateReservation(tx, &res)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"reservation": res,
		"invoice":     inv,
		"notice":      notice,
	})
}

func GetReservations(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	q := tx.Model(&models.Reservation{}).Preload("Client").Preload("Room").Order("created_at DESC")
	if search := c.Query("q"); search != "" {
		like := "%" + search + "%"
		q = q.Joins("JOIN clients ON clients.id = reservations.client_id").
			Joins("JOIN rooms ON rooms.id = reservations.room_id").
			Where("clients.first_name ILIKE ? OR clients.last_name ILIKE ? OR rooms.number ILIKE ?", like, like, like)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("reservations.status = ?", status)
	}
	if start, err := utils.ParseDate(c.Query("start")); err == nil {
		q = q.Where("check_out >= ?", start)
	}
	if end, err := utils.ParseDate(c.Query("end")); err == nil {
		q = q.Where("check_in <= ?", end)
	}

	var reservations []models.Reservation
	if err := q.Find(&reservations).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reservations": reservations})
}

func GetReservation(c *fiber.Ctx) error {
	var res models.Reservation
	err := database.FromCtx(c).Preload("Client").Preload("Room").First(&res, c.Params("id")).Error
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// UpdateReservation patches a reservation. Date/room/client changes re-run
// the availability validation in the entity hook; a status change goes
// through SetStatus so the room synchronizer sees the transition.
func UpdateReservation(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var res models.Reservation
	if err := tx.First(&res, c.Params("id")).Error; err != nil {
		return err
	}

	var dto reservationUpdateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}

	if dto.ClientID != nil {
		res.ClientID = *dto.ClientID
	}
	if dto.RoomID != nil {
		res.RoomID = *dto.RoomID
	}
	if dto.CheckIn != nil {
		d, err := utils.ParseDate(*dto.CheckIn)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid check_in")
		}
		res.CheckIn = d
	}
	if dto.CheckOut != nil {
		d, err := utils.ParseDate(*dto.CheckOut)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid check_out")
		}
		res.CheckOut = d
	}
	if dto.BreakfastIncluded != nil {
		res.BreakfastIncluded = *dto.BreakfastIncluded
	}
	if dto.BreakfastPrice != nil {
		res.BreakfastPrice = utils.Round2(*dto.BreakfastPrice)
	}
	if dto.Status != nil && models.ReservationStatus(*dto.Status) != res.Status {
		res.SetStatus(models.ReservationStatus(*dto.Status))
	}

	if err := tx.Save(&res).Error; err != nil {
		return err
	}
	return c.JSON(res)
}

func DeleteReservation(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var res models.Reservation
	if err := tx.First(&res, c.Params("id")).Error; err != nil {
		return err
	}
	// The AfterDelete hook re-evaluates the room's availability.
	if err := tx.Delete(&res).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "reservation deleted"})
}

func CheckInReservation(c *fiber.Ctx) error {
	return reservationWorkflow(c, services.CheckIn)
}

func CheckOutReservation(c *fiber.Ctx) error {
	return reservationWorkflow(c, services.CheckOut)
}

func CancelReservation(c *fiber.Ctx) error {
	return reservationWorkflow(c, services.Cancel)
}

func reservationWorkflow(c *fiber.Ctx, step func(tx *gorm.DB, res *models.Reservation) (services.Notice, error)) error {
	tx := database.FromCtx(c)

	var res models.Reservation
	if err := tx.Preload("Room").First(&res, c.Params("id")).Error; err != nil {
		return err
	}

	notice, err := step(tx, &res)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reservation": res, "notice": notice})
}
