package controllers

import (
	"hotel-backend/database"
	"hotel-backend/middlewares"
	"hotel-backend/models"
	"hotel-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type clientCreateDTO struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"max=30"`
	Address     string `json:"address" validate:"max=255"`
	City        string `json:"city" validate:"max=100"`
	Country     string `json:"country" validate:"max=100"`
	DateOfBirth string `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	DocumentID  string `json:"document_id" validate:"max=50"`
	Notes       string `json:"notes"`

	BillingType     string `json:"billing_type" validate:"omitempty,oneof=individual company"`
	CompanyName     string `json:"company_name" validate:"max=255"`
	CompanyTaxID    string `json:"company_tax_id" validate:"max=50"`
	CompanyVATPayer bool   `json:"company_vat_payer"`
}

type clientUpdateDTO struct {
	FirstName   *string `json:"first_name" validate:"omitempty,max=100"`
	LastName    *string `json:"last_name" validate:"omitempty,max=100"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,max=30"`
	Address     *string `json:"address" validate:"omitempty,max=255"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	DocumentID  *string `json:"document_id" validate:"omitempty,max=50"`
	Notes       *string `json:"notes"`

	BillingType     *string `json:"billing_type" validate:"omitempty,oneof=individual company"`
	CompanyName     *string `json:"company_name" validate:"omitempty,max=255"`
	CompanyTaxID    *string `json:"company_tax_id" validate:"omitempty,max=50"`
	CompanyVATPayer *bool   `json:"company_vat_payer"`
}

// CreateClient doubles as the quick-create endpoint: only first_name is
// required, everything else is optional.
func CreateClient(c *fiber.Ctx) error {
	var dto clientCreateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizeDTO(&dto)

	client := models.Client{
		FirstName:       dto.FirstName,
		LastName:        dto.LastName,
		Email:           dto.Email,
		Phone:           dto.Phone,
		Address:         dto.Address,
		City:            dto.City,
		Country:         dto.Country,
		DocumentID:      dto.DocumentID,
		Notes:           dto.Notes,
		BillingType:     models.BillingIndividual,
		CompanyName:     dto.CompanyName,
		CompanyTaxID:    dto.CompanyTaxID,
		CompanyVATPayer: dto.CompanyVATPayer,
	}
	if dto.BillingType != "" {
		client.BillingType = models.BillingType(dto.BillingType)
	}
	if dto.DateOfBirth != "" {
		dob, err := utils.ParseDate(dto.DateOfBirth)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid date_of_birth")
		}
		client.DateOfBirth = &dob
	}

	if err := database.FromCtx(c).Create(&client).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":   client.Id,
		"name": client.DisplayName(),
	})
}

func GetClients(c *fiber.Ctx) error {
	var clients []models.Client
	if err := database.FromCtx(c).Order("last_name, first_name").Find(&clients).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clients": clients})
}

func GetClient(c *fiber.Ctx) error {
	var client models.Client
	if err := database.FromCtx(c).First(&client, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	return c.JSON(client)
}

// UpdateClient patches the client record. The AfterUpdate hook pushes the new
// billing details onto the client's unlocked invoices.
func UpdateClient(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var client models.Client
	if err := tx.First(&client, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}

	var dto clientUpdateDTO
	if err := middlewares.BindAndValidate(c, &dto); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&dto)

	applyClientUpdates(&client, &dto)
	if err := tx.Save(&client).Error; err != nil {
		return err
	}
	return c.JSON(client)
}

func applyClientUpdates(client *models.Client, dto *clientUpdateDTO) {
	if dto.FirstName != nil {
		client.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		client.LastName = *dto.LastName
	}
	if dto.Email != nil {
		client.Email = *dto.Email
	}
	if dto.Phone != nil {
		client.Phone = *dto.Phone
	}
	if dto.Address != nil {
		client.Address = *dto.Address
	}
	if dto.City != nil {
		client.City = *dto.City
	}
	if dto.Country != nil {
		client.Country = *dto.Country
	}
	if dto.DocumentID != nil {
		client.DocumentID = *dto.DocumentID
	}
	if dto.Notes != nil {
		client.Notes = *dto.Notes
	}
	if dto.BillingType != nil {
		client.BillingType = models.BillingType(*dto.BillingType)
	}
	if dto.CompanyName != nil {
		client.CompanyName = *dto.CompanyName
	}
	if dto.CompanyTaxID != nil {
		client.CompanyTaxID = *dto.CompanyTaxID
	}
	if dto.CompanyVATPayer != nil {
		client.CompanyVATPayer = *dto.CompanyVATPayer
	}
}

func DeleteClient(c *fiber.Ctx) error {
	tx := database.FromCtx(c)

	var client models.Client
	if err := tx.First(&client, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}
	// RESTRICT on reservations/invoices surfaces as a 409.
	if err := tx.Delete(&client).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "client deleted"})
}
