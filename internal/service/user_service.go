package service

import (
	"errors"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UpdateUserRequest 管理端更新用户请求，密码留空则不修改
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required,min=3"`
	Role     string `json:"role" binding:"required,oneof=ADMIN AUTHOR PARTICIPANT"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// UpdateProfileRequest 个人资料更新请求
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone"`
}

// ChangePasswordRequest 修改密码请求
// swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// UserService 处理用户管理与个人资料相关的业务逻辑
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{
		UserRepo: userRepo,
	}
}

// GetUsers 管理端用户列表，支持分页、角色过滤与模糊搜索
func (s *UserService) GetUsers(page, limit int, role, search string) ([]model.User, int64, error) {
	filter := repository.UserFilter{
		Role:   model.UserRole(role),
		Search: search,
	}
	return s.UserRepo.FindPaginated(page, limit, filter)
}

// GetUserStats 按角色统计账号数量
func (s *UserService) GetUserStats() (map[string]int64, error) {
	total, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	authors, err := s.UserRepo.CountByRole(model.Author)
	if err != nil {
		return nil, err
	}
	participants, err := s.UserRepo.CountByRole(model.Participant)
	if err != nil {
		return nil, err
	}
	return map[string]int64{
		"totalUsers":        total,
		"totalAuthors":      authors,
		"totalParticipants": participants,
	}, nil
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

// UpdateUser 管理端更新用户，用户名不能与其他账号冲突
func (s *UserService) UpdateUser(id uint, req *UpdateUserRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	taken, err := s.UserRepo.UsernameTakenByOther(req.Username, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}

	user.Name = req.Name
	user.Username = req.Username
	user.Role = model.UserRole(req.Role)
	if req.Phone != "" {
		user.Phone = &req.Phone
	}
	if req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashedPassword)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser 删除用户，禁止删除当前登录的账号
func (s *UserService) DeleteUser(id, requesterID uint) error {
	if id == requesterID {
		return util.ErrSelfDeletion
	}
	if _, err := s.UserRepo.FindByID(id); err != nil {
		return util.ErrUserNotFound
	}
	return s.UserRepo.Delete(id)
}

// UpdateProfile 更新当前用户的姓名与手机号
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	user.Name = req.Name
	if req.Phone != "" {
		user.Phone = &req.Phone
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword 校验旧密码后更新为新密码
func (s *UserService) ChangePassword(userID uint, req *ChangePasswordRequest) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return util.ErrUserNotFound
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return util.ErrInvalidCredentials
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)

	return s.UserRepo.Update(user)
}
