package controller

import (
	"errors"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// CreateQuiz godoc
// @Summary 创建测验
// @Description 创建一个草稿状态的测验，邀请码自动生成
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.CreateQuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/quizzes [post]
func (c *QuizController) CreateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(claims.UserID, &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, "Kuis berhasil dibuat.", quiz)
}

// GetMyQuizzes godoc
// @Summary 我的测验列表
// @Description 当前作者的所有测验，附带题目数与作答数
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.QuizSummary} "成功"
// @Router /api/quizzes [get]
func (c *QuizController) GetMyQuizzes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	summaries, err := c.QuizService.GetMyQuizzes(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, summaries)
}

// GetQuiz godoc
// @Summary 测验详情
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	quiz, err := c.QuizService.GetQuizByID(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// UpdateQuiz godoc
// @Summary 更新测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Param   body body service.UpdateQuizRequest true "测验信息"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [put]
func (c *QuizController) UpdateQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.UpdateQuiz(ctx.Param("id"), claims.UserID, claims.Role, &req)
	if err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Kuis berhasil diperbarui.", quiz)
}

// DeleteQuiz godoc
// @Summary 删除测验
// @Description 删除测验并级联清理题目、选项与作答记录
// @Tags 测验
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "测验ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	if err := c.QuizService.DeleteQuiz(ctx.Param("id"), claims.UserID, claims.Role); err != nil {
		respondQuizError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Kuis berhasil dihapus.", nil)
}

// GetPublicQuizzes godoc
// @Summary 公开测验目录
// @Description 已发布且无 PIN 的测验列表，无需登录
// @Tags 测验
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.QuizLobby} "成功"
// @Router /api/quizzes/public [get]
func (c *QuizController) GetPublicQuizzes(ctx *gin.Context) {
	lobbies, err := c.QuizService.GetPublicQuizzes()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, lobbies)
}

// JoinByCode godoc
// @Summary 通过邀请码进入候场
// @Description 返回测验候场信息，不暴露 PIN 与题目内容
// @Tags 测验
// @Produce  json
// @Param   quizCode path string true "邀请码"
// @Success 200 {object} util.Response{data=service.QuizLobby} "成功"
// @Failure 404 {object} util.Response "测验不存在或未发布"
// @Router /api/quizzes/join/{quizCode} [get]
func (c *QuizController) JoinByCode(ctx *gin.Context) {
	lobby, err := c.QuizService.JoinByCode(ctx.Param("quizCode"))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotAvailable) {
			util.NotFound(ctx, "Kuis tidak tersedia saat ini.")
		} else {
			util.NotFound(ctx, "Kuis tidak ditemukan.")
		}
		return
	}
	util.Success(ctx, lobby)
}

func respondQuizError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrQuizNotFound):
		util.NotFound(ctx, "Kuis tidak ditemukan.")
	case errors.Is(err, util.ErrNotOwner):
		util.Forbidden(ctx, "Anda bukan pemilik kuis ini.")
	default:
		util.LogInternalError(ctx, err)
	}
}
