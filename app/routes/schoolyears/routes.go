package schoolyears

import (
	"github.com/gofiber/fiber/v2"
)

func SetupSchoolYearRoutes(app *fiber.App) {
	api := app.Group("/api/school-years")
	api.Get("/", ListSchoolYearsAPI)
	api.Get("/active", GetActiveSchoolYearAPI)
	api.Post("/", CreateSchoolYearAPI)
	api.Get("/:id", GetSchoolYearAPI)
	api.Put("/:id", UpdateSchoolYearAPI)
	api.Post("/:id/activate", ActivateSchoolYearAPI)
	api.Delete("/:id", DeleteSchoolYearAPI)
}
