package schoolyears

import (
	"scolaris/app/config"
	"scolaris/app/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func ListSchoolYearsAPI(c *fiber.Ctx) error {
	var isActive *bool
	if raw := c.Query("is_active"); raw != "" {
		v := raw == "true"
		isActive = &v
	}

	years, err := services.ListSchoolYears(config.GetDB(), isActive)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"school_years": years,
		"count":        len(years),
	})
}

func GetActiveSchoolYearAPI(c *fiber.Ctx) error {
	year, err := services.GetActiveSchoolYear(config.GetDB())
	if err != nil {
		return err
	}
	if year == nil {
		return c.JSON(fiber.Map{"school_year": nil})
	}
	return c.JSON(fiber.Map{"school_year": year})
}

func CreateSchoolYearAPI(c *fiber.Ctx) error {
	var input services.CreateSchoolYearInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validate.Struct(input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	year, err := services.CreateSchoolYear(config.GetDB(), input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "School year created successfully",
		"school_year": year,
	})
}

func GetSchoolYearAPI(c *fiber.Ctx) error {
	year, err := services.GetSchoolYearByID(config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"school_year": year})
}

func UpdateSchoolYearAPI(c *fiber.Ctx) error {
	var patch services.SchoolYearPatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	year, err := services.UpdateSchoolYear(config.GetDB(), c.Params("id"), patch)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     "School year updated successfully",
		"school_year": year,
	})
}

func ActivateSchoolYearAPI(c *fiber.Ctx) error {
	year, err := services.ActivateSchoolYear(config.GetDB(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message":     "School year activated successfully",
		"school_year": year,
	})
}

func DeleteSchoolYearAPI(c *fiber.Ctx) error {
	if err := services.DeleteSchoolYear(config.GetDB(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "School year deleted successfully"})
}
