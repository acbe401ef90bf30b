package classrooms

import (
	"github.com/gofiber/fiber/v2"
)

func SetupClassroomRoutes(app *fiber.App) {
	api := app.Group("/api/classrooms")
	api.Get("/", ListClassroomsAPI)
	api.Post("/", CreateClassroomAPI)
	api.Get("/:id", GetClassroomAPI)
	api.Put("/:id", UpdateClassroomAPI)
	api.Delete("/:id", DeleteClassroomAPI)

	api.Post("/:id/groups", CreateClassGroupAPI)
	api.Put("/groups/:groupId", UpdateClassGroupAPI)
	api.Delete("/groups/:groupId", DeleteClassGroupAPI)
}
