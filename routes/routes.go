package routes

import (
	"github.com/gofiber/fiber/v2"

	"hotel-backend/controllers"
	"hotel-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/registration", controllers.Register)
	api.Post("/login", controllers.Login)
	api.Post("/logout", controllers.Logout)

	// Public availability lookup for the booking widget
	api.Get("/availability", controllers.GetAvailability)

	// Protected endpoints (JWT auth)
	protected := api.Group("")
	protected.Use(middlewares.IsAuthenticatedHeader())

	// Idempotency guard FIRST (not tied to the request TX)
	protected.Use(middlewares.Idempotency())

	// Then one transaction per request (commits/rolls back around the handler)
	protected.Use(middlewares.RequestTx())

	// Rooms
	protected.Post("/rooms", controllers.CreateRoom)
	protected.Get("/rooms", controllers.GetRooms)
	protected.Get("/rooms/:id", controllers.GetRoom)
	protected.Put("/rooms/:id", controllers.UpdateRoom)
	protected.Delete("/rooms/:id", controllers.DeleteRoom)
	protected.Post("/rooms/:id/cleaned", controllers.MarkRoomCleaned)

	// Clients
	protected.Post("/clients", controllers.CreateClient)
	protected.Get("/clients", controllers.GetClients)
	protected.Get("/clients/:id", controllers.GetClient)
	protected.Put("/clients/:id", controllers.UpdateClient)
	protected.Delete("/clients/:id", controllers.DeleteClient)

	// Rate seasons
	protected.Post("/rate-seasons", controllers.CreateRateSeason)
	protected.Get("/rate-seasons", controllers.GetRateSeasons)
	protected.Get("/rate-seasons/:id", controllers.GetRateSeason)
	protected.Put("/rate-seasons/:id", controllers.UpdateRateSeason)
	protected.Delete("/rate-seasons/:id", controllers.DeleteRateSeason)

	// Reservations + lifecycle workflows
	protected.Post("/reservations", controllers.CreateReservation)
	protected.Get("/reservations", controllers.GetReservations)
	protected.Get("/reservations/:id", controllers.GetReservation)
	protected.Put("/reservations/:id", controllers.UpdateReservation)
	protected.Delete("/reservations/:id", controllers.DeleteReservation)
	protected.Post("/reservations/:id/check-in", controllers.CheckInReservation)
	protected.Post("/reservations/:id/check-out", controllers.CheckOutReservation)
	protected.Post("/reservations/:id/cancel", controllers.CancelReservation)

	// Invoices
	protected.Get("/invoices", controllers.GetInvoices)
	protected.Get("/invoices/export.csv", controllers.ExportInvoicesCSV)
	protected.Get("/invoices/:id", controllers.GetInvoice)
	protected.Put("/invoices/:id", controllers.UpdateInvoice)
	protected.Post("/invoices/:id/regenerate-lines", controllers.RegenerateInvoiceLines)
	protected.Post("/invoices/:id/lock", controllers.LockInvoice)
	protected.Get("/invoices/:id/versions", controllers.GetInvoiceVersions)
	protected.Get("/invoices/:id/pdf", controllers.GetInvoicePDF)

	// Night audit
	protected.Get("/night-audit/preview", controllers.PreviewNightAudit)
	protected.Post("/night-audit/close", controllers.CloseNightAudit)
	protected.Get("/night-audit/export.csv", controllers.ExportNightAuditsCSV)
	protected.Get("/night-audit", controllers.GetNightAudits)
	protected.Get("/night-audit/:id", controllers.GetNightAudit)

	// Reports
	protected.Get("/reports/occupancy", controllers.GetOccupancyReport)
	protected.Get("/reports/revenue", controllers.GetRevenueReport)
	protected.Get("/reports/breakfast", controllers.GetBreakfastReport)
	protected.Get("/reports/kpi", controllers.GetKPIReport)
	protected.Get("/reports/housekeeping", controllers.GetHousekeepingReport)
}
