package controllers

import (
	"hotel-backend/database"
	"hotel-backend/middlewares"
	"hotel-backend/models"
	"hotel-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type rateSeasonCreateDTO struct {
	Name      string  `json:"name" validate:"required,max=100"`
	RoomID    *uint   `json:"room_id"`
	RoomType  string  `json:"room_type" validate:"omitempty,oneof=single double twin suite apartment junior_suite"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Price     float64 `json:"price" validate:"gte=0"`
	ApplyOn   string  `json:"apply_on" validate:"omitempty,oneof=all weekdays weekends"`
	Active    *bool   `json:"active"`
}

func CreateRateSeason(c *fiber.Ctx) error {
	var dto rateSeasonCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	start, err := utils.ParseDate(dto.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
	}
	end, err := utils.ParseDate(dto.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
	}

	season := models.RateSeason{
		Name:      dto.Name,
		RoomID:    dto.RoomID,
		RoomType:  models.RoomType(dto.RoomType),
		StartDate: start,
		EndDate:   end,
		Price:     dto.Price,
		ApplyOn:   models.ApplyOnAll,
		Active:    true,
	}
	if dto.ApplyOn != "" {
		season.ApplyOn = models.ApplyOn(dto.ApplyOn)
	}
	if dto.Active != nil {
		season.Active = *dto.Active
	}

	if err := database.FromCtx(c).Create(&season).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(season)
}

func GetRateSeasons(c *fiber.Ctx) error {
	var seasons []models.RateSeason
	if err := database.FromCtx(c).Order("start_date").Find(&seasons).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"rate_seasons": seasons})
}

func GetRateSeason(c *fiber.Ctx) error {
	var season models.RateSeason
	if err := database.FromCtx(c).First(&season, c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(season)
}

func UpdateRateSeason(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var season models.RateSeason
	if err := tx.First(&season, c.Params("id")).Error; err != nil {
		return err
	}

	var dto rateSeasonCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	start, err := utils.ParseDate(dto.StartDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid start_date")
	}
	end, err := utils.ParseDate(dto.EndDate)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid end_date")
	}

	season.Name = dto.Name
	season.RoomID = dto.RoomID
	season.RoomType = models.RoomType(dto.RoomType)
	season.StartDate = start
	season.EndDate = end
	season.Price = dto.Price
	if dto.ApplyOn != "" {
		season.ApplyOn = models.ApplyOn(dto.ApplyOn)
	}
	if dto.Active != nil {
		season.Active = *dto.Active
	}

	if err := tx.Save(&season).Error; err != nil {
		return err
	}
	return c.JSON(season)
}

func DeleteRateSeason(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var season models.RateSeason
	if err := tx.First(&season, c.Params("id")).Error; err != nil {
		return err
	}
	if err := tx.Delete(&season).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "rate season deleted"})
}
