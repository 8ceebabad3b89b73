package controller

import (
	"english_center_backend/internal/service"
	"english_center_backend/internal/util"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

// TestController is the admin test-manager surface: test and question
// CRUD plus question media upload.
type TestController struct {
	Authoring *service.AuthoringService
	Storage   *service.StorageService
}

func NewTestController(authoring *service.AuthoringService, storage *service.StorageService) *TestController {
	return &TestController{Authoring: authoring, Storage: storage}
}

// @Summary Create a test
// @Tags test-manager
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestReq true "test info"
// @Success 201 {object} util.Response
// @Router /api/admin/test-free [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Authoring.CreateTest(req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, test)
}

// @Summary List tests
// @Tags test-manager
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page" default(1)
// @Param limit query int false "page size" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/test-free [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 20)

	tests, total, err := c.Authoring.ListTests(page, limit)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": tests, "total": total})
}

// @Summary Get a test with its questions
// @Tags test-manager
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "test ID"
// @Success 200 {object} util.Response
// @Router /api/admin/test-free/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	test, err := c.Authoring.GetTest(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, test)
}

// @Summary Delete a test and its questions
// @Tags test-manager
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "test ID"
// @Success 200 {object} util.Response
// @Router /api/admin/test-free/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id := ctx.Param("id")
	if err := c.Authoring.DeleteTest(id); err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary Update test basic info (title / reading passage only)
// @Tags test-manager
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "test ID"
// @Param body body service.TestBasicInfoReq true "partial test info"
// @Success 200 {object} util.Response
// @Router /api/admin/test-free/{id}/basic-info [patch]
func (c *TestController) UpdateBasicInfo(ctx *gin.Context) {
	var req service.TestBasicInfoReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.Authoring.UpdateTestBasicInfo(ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, test)
}

// @Summary Add a question to a test
// @Tags test-manager
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "test ID"
// @Param body body service.QuestionReq true "question"
// @Success 201 {object} util.Response
// @Router /api/admin/test-free/{id}/questions [post]
func (c *TestController) AddQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Authoring.AddQuestion(ctx.Param("id"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, q)
}

// @Summary Replace a question in place
// @Tags test-manager
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "test ID"
// @Param qid path string true "question ID"
// @Param body body service.QuestionReq true "question"
// @Success 200 {object} util.Response
// @Router /api/admin/test-free/{id}/questions/{qid} [put]
func (c *TestController) UpdateQuestion(ctx *gin.Context) {
	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Authoring.UpdateQuestion(ctx.Param("id"), ctx.Param("qid"), req)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Success(ctx, q)
}

// @Summary Delete a question
// @Tags test-manager
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "test ID"
// @Param qid path string true "question ID"
// @Success 200 {object} util.Response
// @Router /api/admin/test-free/{id}/questions/{qid} [delete]
func (c *TestController) DeleteQuestion(ctx *gin.Context) {
	deleted, err := c.Authoring.DeleteQuestion(ctx.Param("id"), ctx.Param("qid"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	if !deleted {
		util.NotFound(ctx)
		return
	}

	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary Upload a pronunciation/stress audio clip
// @Tags test-manager
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "audio clip"
// @Success 200 {object} util.Response
// @Router /api/admin/uploads/audio [post]
func (c *TestController) UploadQuestionAudio(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	_, err = util.ValidateMimeType(src, util.AllowedAudioMimeTypes)
	src.Close()
	if err != nil {
		util.BadRequest(ctx, util.ErrUnsupportedAudioFormat.Error())
		return
	}

	tmp := filepath.Join(os.TempDir(), filepath.Base(file.Filename))
	if err := ctx.SaveUploadedFile(file, tmp); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmp)

	url, err := c.Storage.UploadQuestionAudio(ctx.Request.Context(), tmp)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, gin.H{"url": url})
}
