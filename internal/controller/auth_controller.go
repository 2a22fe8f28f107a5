package controller

import (
	"errors"
	"qurio_backend/internal/service"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// Register godoc
// @Summary 注册新账号
// @Description 注册参与者或作者账号，作者必须提供手机号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=model.User} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误或用户名已被占用"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(&req)
	if err != nil {
		if errors.Is(err, util.ErrUsernameTaken) {
			util.BadRequest(ctx, "Username sudah digunakan.")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, "Registrasi berhasil.", user)
}

// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 登录
// @Description 校验凭证并返回 JWT 令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭据"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "凭证无效"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(req.Username, req.Password)
	if err != nil {
		util.Unauthorized(ctx, "Username atau password salah.")
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"name":     user.Name,
			"username": user.Username,
			"role":     user.Role,
		},
	})
}

// GetProfile godoc
// @Summary 获取当前用户资料
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/auth/me [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := c.AuthService.GetCurrentUser(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Autentikasi diperlukan.")
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/auth/me [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Autentikasi diperlukan.")
		return
	}

	var req service.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, &req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Profil berhasil diperbarui.", user)
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body service.ChangePasswordRequest true "新旧密码"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "旧密码错误"
// @Router /api/auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx, "Autentikasi diperlukan.")
		return
	}

	var req service.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.UserService.ChangePassword(claims.UserID, &req); err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			util.Unauthorized(ctx, "Password lama salah.")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.SuccessWithMessage(ctx, "Password berhasil diubah.", nil)
}
