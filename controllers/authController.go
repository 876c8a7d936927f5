package controllers

import (
	"net/mail"
	"time"

	"hotel-backend/database"
	"hotel-backend/middlewares"
	"hotel-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type registerDTO struct {
	FirstName       string `json:"first_name" validate:"required,max=100"`
	LastName        string `json:"last_name" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required"`
}

func Register(c *fiber.Ctx) error {
	var dto registerDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	if dto.Password != dto.PasswordConfirm {
		return fiber.NewError(fiber.StatusBadRequest, "passwords do not match")
	}

	var exists int64
	if err := database.DB.Model(&models.User{}).Where("email = ?", dto.Email).Count(&exists).Error; err != nil {
		return err
	}
	if exists > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "email already exists")
	}

	user := models.User{
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
	}
	user.SetPassword(dto.Password)
	if err := database.DB.Create(&user).Error; err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

type loginDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func Login(c *fiber.Ctx) error {
	var dto loginDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	if _, err := mail.ParseAddress(dto.Email); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid email format")
	}

	var user models.User
	if err := database.DB.Where("email = ?", dto.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
		}
		return err
	}
	if err := user.ComparePassword(dto.Password); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid credentials")
	}

	token, err := middlewares.GenerateJWT(user.Id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.FirstName + " " + user.LastName,
			"email": user.Email,
		},
	})
}

func Logout(c *fiber.Ctx) error {
	cookie := fiber.Cookie{
		Name:     "jwt",
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	}
	c.Cookie(&cookie)
	return c.JSON(fiber.Map{"message": "success"})
}
