package controller

import (
	"errors"
	"qurio_backend/internal/model"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	AnalyticsService *service.AnalyticsService
}

func NewAnalyticsController(analyticsService *service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{AnalyticsService: analyticsService}
}

// GetDashboard godoc
// @Summary 仪表盘
// @Description 作者看到自己测验的统计，管理员看到全局统计
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.Dashboard} "成功"
// @Router /api/analytics/dashboard [get]
func (c *AnalyticsController) GetDashboard(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	// 管理员取全局视角
	scope := claims.UserID
	if claims.Role == model.Admin {
		scope = 0
	}

	dashboard, err := c.AnalyticsService.GetDashboard(ctx.Request.Context(), scope)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// GetQuizAnalytics godoc
// @Summary 单个测验统计
// @Description 测验统计与排行榜，按分数降序、用时升序排列
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   quizId path string true "测验ID"
// @Success 200 {object} util.Response{data=model.QuizAnalytics} "成功"
// @Failure 403 {object} util.Response "非测验所有者"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/analytics/quizzes/{quizId} [get]
func (c *AnalyticsController) GetQuizAnalytics(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	analytics, err := c.AnalyticsService.GetQuizAnalytics(ctx.Param("quizId"), claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, "Kuis tidak ditemukan.")
		case errors.Is(err, util.ErrNotOwner):
			util.Forbidden(ctx, "Anda bukan pemilik kuis ini.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, analytics)
}

// GetAttemptDetail godoc
// @Summary 单次作答详情
// @Description 测验作者与管理员查看一次作答的完整信息
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path string true "作答ID"
// @Success 200 {object} util.Response{data=model.QuizAttempt} "成功"
// @Failure 403 {object} util.Response "无权查看"
// @Failure 404 {object} util.Response "作答不存在"
// @Router /api/analytics/attempts/{id} [get]
func (c *AnalyticsController) GetAttemptDetail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	attempt, err := c.AnalyticsService.GetAttemptDetail(ctx.Param("id"), claims.UserID, claims.Role)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx, "Pengerjaan kuis tidak ditemukan.")
		case errors.Is(err, util.ErrNotOwner):
			util.Forbidden(ctx, "Anda tidak memiliki akses ke pengerjaan ini.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, attempt)
}
