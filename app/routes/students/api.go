package students

import (
	"scolaris/app/config"
	"scolaris/app/database"
	"scolaris/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func ListStudentsAPI(c *fiber.Ctx) error {
	filters := database.StudentFilters{
		SchoolYearID: c.Query("school_year_id"),
		ClassroomID:  c.Query("classroom_id"),
		ClassGroupID: c.Query("class_group_id"),
		Status:       c.Query("status"),
		Search:       c.Query("search"),
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	result, err := services.ListStudents(config.GetDB(), filters, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"students": result.Students,
		"pagination": fiber.Map{
			"total": result.Total,
			"page":  result.Page,
			"limit": result.Limit,
		},
	})
}

func CreateStudentAPI(c *fiber.Ctx) error {
	var input services.CreateStudentInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	student, err := services.CreateStudent(config.GetDB(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Student created successfully",
		"student": student,
	})
}

func GetStudentAPI(c *fiber.Ctx) error {
	student, err := services.GetStudentByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"student": student})
}

func UpdateStudentAPI(c *fiber.Ctx) error {
	var patch services.StudentPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	student, err := services.UpdateStudent(config.GetDB(), c.Params("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Student updated successfully",
		"student": student,
	})
}

func EnrollStudentAPI(c *fiber.Ctx) error {
	var input services.EnrollStudentInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	student, err := services.EnrollStudent(config.GetDB(), c.Params("id"), input)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Student enrolled successfully",
		"student": student,
	})
}

func DeleteStudentAPI(c *fiber.Ctx) error {
	if err := services.DeleteStudent(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}
