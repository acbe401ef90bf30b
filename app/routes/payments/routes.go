package payments

import (
	"github.com/gofiber/fiber/v2"
)

func SetupPaymentRoutes(app *fiber.App) {
	api := app.Group("/api/payments")
	api.Get("/", ListPaymentsAPI)
	api.Post("/", CreatePaymentAPI)
	api.Get("/:id", GetPaymentAPI)
	api.Put("/:id", UpdatePaymentAPI)
	api.Delete("/:id", DeletePaymentAPI)
}
