package controllers

import (
	"hotel-backend/database"
	"hotel-backend/middlewares"
	"hotel-backend/models"
	"hotel-backend/services"
	"hotel-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type roomCreateDTO struct {
	Number        string  `json:"number" validate:"required,max=10"`
	Type          string  `json:"type" validate:"required,oneof=single double twin suite apartment junior_suite"`
	PricePerNight float64 `json:"price_per_night" validate:"gte=0"`
}

type roomUpdateDTO struct {
	Number        *string  `json:"number" validate:"omitempty,max=10"`
	Type          *string  `json:"type" validate:"omitempty,oneof=single double twin suite apartment junior_suite"`
	PricePerNight *float64 `json:"price_per_night" validate:"omitempty,gte=0"`
}

func CreateRoom(c *fiber.Ctx) error {
	var dto roomCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	room := models.Room{
		Number:        dto.Number,
		Type:          models.RoomType(dto.Type),
		PricePerNight: dto.PricePerNight,
		Status:        models.RoomAvailable,
	}
	tx := database.FromCtx(c)
	if err := tx.Create(&room).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func GetRooms(c *fiber.Ctx) error {
	var rooms []models.Room
	if err := database.FromCtx(c).Order("number").Find(&rooms).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rooms": rooms})
}

func GetRoom(c *fiber.Ctx) error {
	var room models.Room
	if err := database.FromCtx(c).First(&room, c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(room)
}

// UpdateRoom patches the editable room fields. Status is not among them:
// status belongs to the reservation synchronizer and the housekeeping
// endpoint.
func UpdateRoom(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var room models.Room
	if err := tx.First(&room, c.Params("id")).Error; err != nil {
		return err
	}

	var dto roomUpdateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&dto)

	updates := utils.UpdatesFromPtrDTO(&dto, nil)
	if len(updates) > 0 {
		if err := tx.Model(&room).Updates(updates).Error; err != nil {
			return err
		}
	}
	return c.JSON(room)
}

func DeleteRoom(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var room models.Room
	if err := tx.First(&room, c.Params("id")).Error; err != nil {
		return err
	}
	// RESTRICT on reservations surfaces as a 409 through the error handler.
	if err := tx.Delete(&room).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "room deleted"})
}

// MarkRoomCleaned is the housekeeping override: room becomes available no
// matter what reservation state says.
func MarkRoomCleaned(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var room models.Room
	if err := tx.First(&room, c.Params("id")).Error; err != nil {
		return err
	}
	notice, err := services.MarkRoomCleaned(tx, &room)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"room": room, "notice": notice})
}
