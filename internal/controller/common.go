package controller

import (
	"english_center_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondServiceError maps a service error onto the response envelope.
// Raw transport or storage errors never reach clients uncategorized.
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case util.IsValidationError(err):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrTestNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrDuplicateQuestionID):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrTestAlreadySubmitted):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrTestNotPublished),
		errors.Is(err, util.ErrTestHasNoQuestions):
		util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
