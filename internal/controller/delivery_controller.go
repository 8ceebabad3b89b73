package controller

import (
	"english_center_backend/internal/service"
	"english_center_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DeliveryController is the public free-test surface: load the test,
// register, answer, submit, and read back history.
type DeliveryController struct {
	Delivery     *service.DeliveryService
	Registration *service.RegistrationService
}

func NewDeliveryController(delivery *service.DeliveryService, registration *service.RegistrationService) *DeliveryController {
	return &DeliveryController{Delivery: delivery, Registration: registration}
}

// @Summary Get a published free test with its questions
// @Tags free-test
// @Produce json
// @Param id path string true "test ID"
// @Success 200 {object} util.Response
// @Router /api/test-free/{id} [get]
func (c *DeliveryController) GetTest(ctx *gin.Context) {
	test, err := c.Delivery.GetTest(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, test)
}

// @Summary Register and start a free-test attempt
// @Tags free-test
// @Accept json
// @Produce json
// @Param id path string true "test ID"
// @Param body body service.RegistrantReq true "candidate contact details"
// @Success 201 {object} util.Response
// @Router /api/test-free/{id}/register [post]
func (c *DeliveryController) Register(ctx *gin.Context) {
	var req service.RegistrantReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, test, err := c.Delivery.StartAttempt(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"attemptId": attempt.ID,
		"startedAt": attempt.StartedAt,
		"test":      test,
	})
}

type answerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Answer     string `json:"answer"`
}

// @Summary Record or change an answer on an in-progress attempt
// @Tags free-test
// @Accept json
// @Produce json
// @Param id path string true "attempt ID"
// @Param body body answerRequest true "selected answer"
// @Success 200 {object} util.Response
// @Router /api/test-free/attempts/{id}/answers [post]
func (c *DeliveryController) RecordAnswer(ctx *gin.Context) {
	var req answerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Delivery.RecordAnswer(ctx.Request.Context(), ctx.Param("id"), req.QuestionID, req.Answer)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"answered": len(attempt.Answers)})
}

// @Summary Submit an attempt and receive the scored result
// @Tags free-test
// @Produce json
// @Param id path string true "attempt ID"
// @Success 200 {object} util.Response
// @Router /api/test-free/attempts/{id}/submit [post]
func (c *DeliveryController) Submit(ctx *gin.Context) {
	result, err := c.Delivery.Submit(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// @Summary Fetch a candidate's test history
// @Tags free-test
// @Produce json
// @Param email path string true "registrant email"
// @Success 200 {object} util.Response
// @Router /api/test-free/user-test/{email} [get]
func (c *DeliveryController) GetHistory(ctx *gin.Context) {
	history, err := c.Registration.FetchHistory(ctx.Param("email"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"userTest": history})
}
