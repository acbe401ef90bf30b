package payments

import (
	"scolaris/app/config"
	"scolaris/app/database"
	"scolaris/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func ListPaymentsAPI(c *fiber.Ctx) error {
	filters := database.PaymentFilters{
		StudentID:    c.Query("student_id"),
		SchoolYearID: c.Query("school_year_id"),
		Status:       c.Query("status"),
		Type:         c.Query("type"),
	}

	payments, err := services.ListPayments(config.GetDB(), filters)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"count":    len(payments),
	})
}

func CreatePaymentAPI(c *fiber.Ctx) error {
	var input services.CreatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	// Caller-supplied identity for attribution; authentication itself
	// lives outside this service.
	recordedBy := c.Get("X-User-ID")

	payment, err := services.CreatePayment(config.GetDB(), input, recordedBy)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment recorded successfully",
		"payment": payment,
	})
}

func GetPaymentAPI(c *fiber.Ctx) error {
	payment, err := services.GetPaymentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func UpdatePaymentAPI(c *fiber.Ctx) error {
	var patch services.PaymentPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	payment, err := services.UpdatePayment(config.GetDB(), c.Params("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Payment updated successfully",
		"payment": payment,
	})
}

func DeletePaymentAPI(c *fiber.Ctx) error {
	if err := services.DeletePayment(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Payment deleted successfully"})
}
