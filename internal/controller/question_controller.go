package controller

import (
	"errors"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// CreateQuestion godoc
// @Summary 新增题目
// @Description 为测验新增题目，题目与选项在同一事务内写入
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Param   body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "非测验所有者"
// @Router /api/quizzes/{id}/questions [post]
func (c *QuestionController) CreateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.CreateQuestion(ctx.Param("id"), claims.UserID, claims.Role, &req)
	if err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.Created(ctx, "Pertanyaan berhasil ditambahkan.", question)
}

// GetQuestions godoc
// @Summary 题目列表
// @Description 测验全部题目，作者视角包含正确答案标记
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=[]service.QuestionView} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Router /api/quizzes/{id}/questions [get]
func (c *QuestionController) GetQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	questions, err := c.QuestionService.GetQuestions(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.Success(ctx, service.ProjectForOwner(questions))
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Description 更新题目内容，提交的选项整体替换旧选项
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Param   body body service.QuestionRequest true "题目信息"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.UpdateQuestion(ctx.Param("id"), claims.UserID, claims.Role, &req)
	if err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Pertanyaan berhasil diperbarui.", question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 题目
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "题目ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/questions/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.QuestionService.DeleteQuestion(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondQuestionError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Pertanyaan berhasil dihapus.", nil)
}

func respondQuestionError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx, "Kuis tidak ditemukan.")
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, "Pertanyaan tidak ditemukan.")
	case errors.Is(err, util.ErrNotOwner):
		util.Forbidden(ctx, "Anda bukan pemilik kuis ini.")
	default:
		util.BadRequest(ctx, err.Error())
	}
}
