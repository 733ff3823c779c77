package http

import (
	"fmt"
	"reflect"
	"strings"

	"chessrules/internal/core"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const validatedBodyKey = "validatedBody"

var validate = validator.New()

// validationMiddleware parses and validates the JSON body of POST routes,
// storing the request struct under validatedBodyKey for the handler
func validationMiddleware(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.Next()
	}

	path := c.Path()
	var (
		requestType  any
		optionalBody bool
	)

	switch {
	case strings.HasSuffix(path, "/games"):
		requestType = &core.CreateGameRequest{}
		optionalBody = true
	case strings.HasSuffix(path, "/moves"):
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/check"):
		requestType = &core.CheckRequest{}
	case strings.HasSuffix(path, "/undo"):
		requestType = &core.UndoRequest{Count: 1}
		optionalBody = true
	default:
		return c.Next()
	}

	if len(c.Body()) == 0 {
		if !optionalBody {
			return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
				Error: "request body required",
				Code:  core.ErrInvalidRequest,
			})
		}
	} else if err := c.BodyParser(requestType); err != nil {
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

	c.Locals(validatedBodyKey, requestType)
	return c.Next()
}

func describeValidation(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var details strings.Builder
	for _, fe := range errs {
		if details.Len() > 0 {
			details.WriteString("; ")
		}
		isString := fe.Kind() == reflect.String
		switch fe.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", fe.Field()))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param()))
		case "len":
			details.WriteString(fmt.Sprintf("%s must be exactly %s characters", fe.Field(), fe.Param()))
		case "min":
			if isString {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
			}
		case "max":
			if isString {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
			}
		case "uuid":
			details.WriteString(fmt.Sprintf("%s must be a UUID", fe.Field()))
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	return details.String()
}

// body fetches the request struct stored by validationMiddleware
func body[T any](c *fiber.Ctx) (*T, bool) {
	req, ok := c.Locals(validatedBodyKey).(*T)
	return req, ok
}
