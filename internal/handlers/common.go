// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/atelierprints/catalog-backend/internal/services"
	"github.com/atelierprints/catalog-backend/internal/utils"
)

// respondServiceError maps the catalog error taxonomy onto HTTP outcomes:
// missing entities are 404, business-rule rejections (duplicates, stock,
// state machine) are 409, bad input is 400, anything else is an
// infrastructure failure.
func respondServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case services.IsNotFound(err):
		utils.NotFoundResponse(c, err.Error())
	case services.IsDuplicateValue(err), services.IsInsufficientStock(err), services.IsInvalidStateTransition(err):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrEmptySlug):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.As(err, &validationErrs):
		utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

// actorID extracts the authenticated actor from the request context. The
// auth middleware guarantees presence on protected routes.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
