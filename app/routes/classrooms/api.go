package classrooms

import (
	"scolaris/app/config"
	"scolaris/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func ListClassroomsAPI(c *fiber.Ctx) error {
	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		v := raw == "true"
		isActive = &v
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	result, err := services.ListClassRooms(config.GetDB(), c.Query("school_year_id"), isActive, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"classrooms": result.Classrooms,
		"pagination": fiber.Map{
			"total": result.Total,
			"page":  result.Page,
			"limit": result.Limit,
		},
	})
}

func CreateClassroomAPI(c *fiber.Ctx) error {
	var input services.CreateClassRoomInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	classroom, err := services.CreateClassRoom(config.GetDB(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Classroom created successfully",
		"classroom": classroom,
	})
}

func GetClassroomAPI(c *fiber.Ctx) error {
	classroom, err := services.GetClassRoomByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"classroom": classroom})
}

func UpdateClassroomAPI(c *fiber.Ctx) error {
	var patch services.ClassRoomPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	classroom, err := services.UpdateClassRoom(config.GetDB(), c.Params("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":   "Classroom updated successfully",
		"classroom": classroom,
	})
}

func DeleteClassroomAPI(c *fiber.Ctx) error {
	if err := services.DeleteClassRoom(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Classroom deleted successfully"})
}

func CreateClassGroupAPI(c *fiber.Ctx) error {
	var input services.ClassGroupInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	group, err := services.CreateClassGroup(config.GetDB(), c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Class group created successfully",
		"group":   group,
	})
}

func UpdateClassGroupAPI(c *fiber.Ctx) error {
	var patch services.ClassGroupPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	group, err := services.UpdateClassGroup(config.GetDB(), c.Params("groupId"), patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Class group updated successfully",
		"group":   group,
	})
}

func DeleteClassGroupAPI(c *fiber.Ctx) error {
	if err := services.DeleteClassGroup(config.GetDB(), c.Params("groupId")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Class group deleted successfully"})
}
