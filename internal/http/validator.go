package http

import (
	"fmt"
	"reflect"
	"strings"

	"fenview/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var validate = validator.New()

// validationMiddleware parses and validates JSON bodies, storing the result
// in c.Locals("validatedBody") for the handler
func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	var requestType interface{}
	switch {
	case strings.HasSuffix(c.Path(), "/positions"):
		requestType = &core.CreatePositionRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: describeValidation(err),
		})
	}

	c.Locals("validatedBody", requestType)
	return c.Next()
}

// describeValidation flattens validator errors into one readable line
func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, e := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		switch e.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", e.Field()))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", e.Field(), e.Param()))
		case "min":
			if e.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", e.Field(), e.Param()))
			}
		case "max":
			if e.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", e.Field(), e.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", e.Field(), e.Tag()))
		}
	}
	return details.String()
}

func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
