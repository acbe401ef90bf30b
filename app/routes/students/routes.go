package students

import (
	"github.com/gofiber/fiber/v2"
)

func SetupStudentRoutes(app *fiber.App) {
	api := app.Group("/api/students")
	api.Get("/", ListStudentsAPI)
	api.Post("/", CreateStudentAPI)
	api.Get("/:id", GetStudentAPI)
	api.Put("/:id", UpdateStudentAPI)
	api.Post("/:id/enroll", EnrollStudentAPI)
	api.Delete("/:id", DeleteStudentAPI)
}
