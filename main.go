package main

import (
	"errors"
	"log"

	"scolaris/app/config"
	"scolaris/app/routes/classrooms"
	"scolaris/app/routes/payments"
	"scolaris/app/routes/schoolyears"
	"scolaris/app/routes/students"
	"scolaris/app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// statusForCode maps business error codes onto HTTP statuses.
func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.CodeSchoolYearNotFound,
		services.CodeClassroomNotFound,
		services.CodeClassGroupNotFound,
		services.CodeStudentNotFound,
		services.CodePaymentNotFound:
		return fiber.StatusNotFound
	case services.CodeSchoolYearAlreadyExists,
		services.CodeClassroomDuplicate,
		services.CodeClassGroupDuplicate,
		services.CodeDuplicateMatricule,
		services.CodeDuplicateReference:
		return fiber.StatusConflict
	default:
		return fiber.StatusBadRequest
	}
}

// errorHandler translates typed service errors and fiber errors into
// JSON responses.
func errorHandler(c *fiber.Ctx, err error) error {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		return c.Status(statusForCode(svcErr.Code)).JSON(fiber.Map{
			"success": false,
			"code":    svcErr.Code,
			"error":   svcErr.Message,
		})
	}

	code := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

func main() {
	config.InitDB()

	app := fiber.New(fiber.Config{
		AppName:      "Scolaris",
		ErrorHandler: errorHandler,
	})

	app.Use(cors.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	schoolyears.SetupSchoolYearRoutes(app)
	classrooms.SetupClassroomRoutes(app)
	students.SetupStudentRoutes(app)
	payments.SetupPaymentRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "Not found")
	})

	log.Println("Server starting on :8080")
	log.Fatal(app.Listen(":8080"))
}
