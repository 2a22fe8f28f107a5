package controller

import (
	"errors"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminController 管理端的用户、测验与作答管理
type AdminController struct {
	UserService      *service.UserService
	QuizService      *service.QuizService
	AnalyticsService *service.AnalyticsService
	QuizRepo         *repository.QuizRepository
}

func NewAdminController(
	userService *service.UserService,
	quizService *service.QuizService,
	analyticsService *service.AnalyticsService,
	quizRepo *repository.QuizRepository,
) *AdminController {
	return &AdminController{
		UserService:      userService,
		QuizService:      quizService,
		AnalyticsService: analyticsService,
		QuizRepo:         quizRepo,
	}
}

// GetUsers godoc
// @Summary 用户列表
// @Description 分页用户列表，支持角色过滤与姓名/用户名搜索
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Param   role query string false "角色过滤"
// @Param   q query string false "搜索关键词"
// @Success 200 {object} util.Response{data=[]model.User} "成功"
// @Router /api/admin/users [get]
func (c *AdminController) GetUsers(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 10)

	users, total, err := c.UserService.GetUsers(page, limit, ctx.Query("role"), ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, users, util.NewPagination(page, limit, total))
}

// GetUserStats godoc
// @Summary 用户统计
// @Description 按角色统计账号数量
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/admin/users/stats [get]
func (c *AdminController) GetUserStats(ctx *gin.Context) {
	stats, err := c.UserService.GetUserStats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// UpdateUser godoc
// @Summary 更新用户
// @Tags 管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body service.UpdateUserRequest true "用户信息"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "用户名已被占用"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id} [put]
func (c *AdminController) UpdateUser(ctx *gin.Context) {
	var req service.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateUser(util.MustParseUint(ctx.Param("id")), &req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "Pengguna tidak ditemukan.")
		case errors.Is(err, util.ErrUsernameTaken):
			util.BadRequest(ctx, "Username sudah digunakan.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.SuccessWithMessage(ctx, "Pengguna berhasil diperbarui.", user)
}

// DeleteUser godoc
// @Summary 删除用户
// @Description 删除用户账号，不允许删除当前登录的账号
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "不能删除自己的账号"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	err := c.UserService.DeleteUser(util.MustParseUint(ctx.Param("id")), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSelfDeletion):
			util.Forbidden(ctx, "Anda tidak dapat menghapus akun sendiri.")
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx, "Pengguna tidak ditemukan.")
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.SuccessWithMessage(ctx, "Pengguna berhasil dihapus.", nil)
}

// GetQuizzes godoc
// @Summary 全部测验列表
// @Description 分页测验列表，支持状态过滤与标题/邀请码搜索
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Param   status query string false "状态过滤"
// @Param   q query string false "搜索关键词"
// @Success 200 {object} util.Response{data=[]model.Quiz} "成功"
// @Router /api/admin/quizzes [get]
func (c *AdminController) GetQuizzes(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 10)

	filter := repository.QuizFilter{
		Status: ctx.Query("status"),
		Search: ctx.Query("q"),
	}
	quizzes, total, err := c.QuizRepo.FindPaginated(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, quizzes, util.NewPagination(page, limit, total))
}

// GetQuizBySlug godoc
// @Summary 测验详情
// @Description 按 slug 查询测验，包含题目与选项
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "测验 slug"
// @Success 200 {object} util.Response{data=model.Quiz} "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{slug} [get]
func (c *AdminController) GetQuizBySlug(ctx *gin.Context) {
	quiz, err := c.QuizRepo.FindBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx, "Kuis tidak ditemukan.")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// DeleteQuiz godoc
// @Summary 强制删除测验
// @Description 管理员按 slug 删除任意测验，级联删除题目、选项与作答记录
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   slug path string true "测验 slug"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{slug} [delete]
func (c *AdminController) DeleteQuiz(ctx *gin.Context) {
	quiz, err := c.QuizRepo.FindBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx, "Kuis tidak ditemukan.")
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.QuizRepo.Delete(quiz.ID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Kuis berhasil dihapus.", nil)
}

// GetAttempts godoc
// @Summary 全部作答列表
// @Description 分页作答列表，支持关键词、完成状态与时间区间过滤
// @Tags 管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(10)
// @Param   q query string false "搜索关键词"
// @Param   status query string false "COMPLETED 或 IN_PROGRESS"
// @Param   startDate query string false "开始日期 YYYY-MM-DD"
// @Param   endDate query string false "结束日期 YYYY-MM-DD"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt} "成功"
// @Router /api/admin/attempts [get]
func (c *AdminController) GetAttempts(ctx *gin.Context) {
	page := util.ParsePositiveInt(ctx.Query("page"), 1)
	limit := util.ParsePositiveInt(ctx.Query("limit"), 10)

	filter := repository.AttemptFilter{
		Search: ctx.Query("q"),
		Status: ctx.Query("status"),
	}
	if start, err := time.Parse(util.DateFormat, ctx.Query("startDate")); err == nil {
		filter.StartDate = &start
	}
	if end, err := time.Parse(util.DateFormat, ctx.Query("endDate")); err == nil {
		// 结束日期含当天
		end = end.Add(24*time.Hour - time.Second)
		filter.EndDate = &end
	}

	attempts, total, err := c.AnalyticsService.ListAttempts(page, limit, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Paginated(ctx, attempts, util.NewPagination(page, limit, total))
}
