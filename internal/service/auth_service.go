package service

import (
	"errors"
	"qurio_backend/internal/config"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterRequest 注册请求，AUTHOR 角色必须提供手机号
// swagger:model RegisterRequest
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// Register 创建账号，角色缺省为 PARTICIPANT，用户名重复返回 ErrUsernameTaken
func (s *AuthService) Register(req *RegisterRequest) (*model.User, error) {
	_, err := s.UserRepo.FindByUsername(req.Username)
	if err == nil {
		return nil, util.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := model.Participant
	switch model.UserRole(req.Role) {
	case model.Author:
		role = model.Author
	case model.Admin:
		// 管理员账号不走公开注册
		role = model.Participant
	}

	if role == model.Author && req.Phone == "" {
		return nil, errors.New("nomor telepon wajib diisi untuk akun author")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Username: req.Username,
		Password: string(hashedPassword),
		Role:     role,
	}
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login 校验凭证并签发 JWT
func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
