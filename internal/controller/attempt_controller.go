package controller

import (
	"errors"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	AttemptService *service.AttemptService
}

func NewAttemptController(attemptService *service.AttemptService) *AttemptController {
	return &AttemptController{AttemptService: attemptService}
}

// StartQuiz godoc
// @Summary 开始答题
// @Description 开卷并返回参与者视角的题目，私有测验必须携带 PIN
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.StartQuizRequest true "开卷请求"
// @Success 201 {object} util.Response{data=service.StartQuizResponse} "开卷成功"
// @Failure 400 {object} util.Response "测验不可用"
// @Failure 401 {object} util.Response "PIN 错误"
// @Failure 403 {object} util.Response "时间窗口未开放或已达作答次数上限"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/attempts/start [post]
func (c *AttemptController) StartQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.StartQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AttemptService.StartQuiz(claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, "Kuis tidak ditemukan.")
		case errors.Is(err, util.ErrQuizNotAvailable):
			util.BadRequest(ctx, "Kuis tidak tersedia saat ini.")
		case errors.Is(err, util.ErrWrongPIN):
			util.Unauthorized(ctx, "PIN salah.")
		case errors.Is(err, util.ErrQuizNotStarted):
			util.Forbidden(ctx, "Kuis belum dimulai.")
		case errors.Is(err, util.ErrQuizClosed):
			util.Forbidden(ctx, "Kuis sudah berakhir.")
		case errors.Is(err, util.ErrMaxAttemptsReached):
			util.Forbidden(ctx, "Anda sudah mencapai batas maksimal pengerjaan kuis ini.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, "Pengerjaan kuis dimulai.", resp)
}

// SaveAnswer godoc
// @Summary 保存作答
// @Description 保存单题作答，重复提交同一题时覆盖之前的选择
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答ID"
// @Param   body body service.SaveAnswerRequest true "作答内容"
// @Success 200 {object} util.Response{data=model.Answer} "成功"
// @Failure 400 {object} util.Response "作答已结束"
// @Failure 403 {object} util.Response "非本人的作答或时间已到"
// @Failure 404 {object} util.Response "作答或题目不存在"
// @Router /api/attempts/{id}/answers [post]
func (c *AttemptController) SaveAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.SaveAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.AttemptService.SaveAnswer(claims.UserID, ctx.Param("id"), &req)
	if err != nil {
		respondAttemptError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// FinishQuiz godoc
// @Summary 交卷
// @Description 结算得分，作者隐藏分数时不返回具体分数
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答ID"
// @Success 200 {object} util.Response{data=service.FinishQuizResponse} "成功"
// @Failure 400 {object} util.Response "作答已结束"
// @Failure 403 {object} util.Response "非本人的作答"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/attempts/{id}/finish [post]
func (c *AttemptController) FinishQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	resp, err := c.AttemptService.FinishQuiz(claims.UserID, ctx.Param("id"))
	if err != nil {
		respondAttemptError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Kuis berhasil diselesaikan.", resp)
}

// GetReview godoc
// @Summary 作答回顾
// @Description 查看已完成作答的逐题回顾，仅本人可见且测验须开启分数展示
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答ID"
// @Success 200 {object} util.Response{data=service.AttemptReview} "成功"
// @Failure 403 {object} util.Response "回顾被隐藏或非本人的作答"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/attempts/{id}/review [get]
func (c *AttemptController) GetReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	review, err := c.AttemptService.GetReview(claims.UserID, ctx.Param("id"), claims.Role)
	if err != nil {
		if errors.Is(err, util.ErrReviewHidden) {
			util.Forbidden(ctx, "Pembuat kuis menyembunyikan hasil pengerjaan.")
			return
		}
		respondAttemptError(ctx, err)
		return
	}
	util.Success(ctx, review)
}

// GetMyHistory godoc
// @Summary 我的作答历史
// @Tags 作答
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.HistoryItem} "成功"
// @Router /api/attempts/history [get]
func (c *AttemptController) GetMyHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	items, err := c.AttemptService.GetMyHistory(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

func respondAttemptError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound):
		util.NotFound(ctx, "Pengerjaan kuis tidak ditemukan.")
	case errors.Is(err, util.ErrQuestionNotFound):
		util.NotFound(ctx, "Pertanyaan tidak ditemukan.")
	case errors.Is(err, util.ErrNotOwner):
		util.Forbidden(ctx, "Anda tidak memiliki akses ke pengerjaan ini.")
	case errors.Is(err, util.ErrAttemptClosed):
		util.BadRequest(ctx, "Pengerjaan kuis sudah selesai.")
	case errors.Is(err, util.ErrTimeExpired):
		util.Forbidden(ctx, "Waktu pengerjaan sudah habis.")
	default:
		util.BadRequest(ctx, err.Error())
	}
}
