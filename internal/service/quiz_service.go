package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

// CreateQuizRequest 创建测验请求
// swagger:model CreateQuizRequest
type CreateQuizRequest struct {
	Title              string     `json:"title" binding:"required"`
	Description        string     `json:"description"`
	PIN                *string    `json:"pin"`
	TimeLimit          *int       `json:"timeLimit"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	ShowScore          *bool      `json:"showScore"`
	RandomizeQuestions bool       `json:"randomizeQuestions"`
	MaxAttempts        int        `json:"maxAttempts"`
}

// UpdateQuizRequest 更新测验请求，所有字段整体覆盖
// swagger:model UpdateQuizRequest
type UpdateQuizRequest struct {
	Title              string     `json:"title" binding:"required"`
	Description        string     `json:"description"`
	PIN                *string    `json:"pin"`
	TimeLimit          *int       `json:"timeLimit"`
	Status             string     `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED INACTIVE ARCHIVED"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
	ShowScore          *bool      `json:"showScore"`
	RandomizeQuestions *bool      `json:"randomizeQuestions"`
	MaxAttempts        *int       `json:"maxAttempts"`
}

// QuizSummary 作者测验列表中的一行，附带题目数与作答数
type QuizSummary struct {
	model.Quiz
	QuestionCount int64 `json:"questionCount"`
	AttemptCount  int64 `json:"attemptCount"`
}

// QuizLobby 参与者进入测验前看到的候场信息，不暴露 PIN 与题目内容
type QuizLobby struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	QuizCode      string     `json:"quizCode"`
	Description   string     `json:"description"`
	TimeLimit     *int       `json:"timeLimit"`
	QuestionCount int64      `json:"questionCount"`
	IsPrivate     bool       `json:"isPrivate"`
	ShowScore     bool       `json:"showScore"`
	MaxAttempts   int        `json:"maxAttempts"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	AuthorName    string     `json:"authorName"`
}

// QuizService 测验目录的业务逻辑
type QuizService struct {
	QuizRepo *repository.QuizRepository
}

func NewQuizService(quizRepo *repository.QuizRepository) *QuizService {
	return &QuizService{QuizRepo: quizRepo}
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify 生成 URL 安全的标题片段，追加毫秒时间戳保证唯一
func slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugPattern.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "quiz"
	}
	return fmt.Sprintf("%s-%d", slug, time.Now().UnixMilli())
}

var codeAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// generateQuizCode 生成最长 10 位的大写字母数字邀请码
func generateQuizCode() string {
	buf := make([]byte, 6)
	rand.Read(buf)
	code := base64.RawURLEncoding.EncodeToString(buf)
	code = codeAlnum.ReplaceAllString(strings.ToUpper(code), "")
	if len(code) > 10 {
		code = code[:10]
	}
	return code
}

// CreateQuiz 新建测验，初始状态为 DRAFT
func (s *QuizService) CreateQuiz(authorID uint, req *CreateQuizRequest) (*model.Quiz, error) {
	quiz := &model.Quiz{
		Title:              req.Title,
		Slug:               slugify(req.Title),
		Description:        req.Description,
		PIN:                req.PIN,
		TimeLimit:          req.TimeLimit,
		Status:             model.QuizDraft,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		ShowScore:          true,
		RandomizeQuestions: req.RandomizeQuestions,
		MaxAttempts:        1,
		AuthorID:           authorID,
	}
	if req.ShowScore != nil {
		quiz.ShowScore = *req.ShowScore
	}
	if req.MaxAttempts > 0 {
		quiz.MaxAttempts = req.MaxAttempts
	}

	// 邀请码撞库时重试，10 位随机码冲突概率极低
	for i := 0; i < 5; i++ {
		quiz.QuizCode = generateQuizCode()
		if _, err := s.QuizRepo.FindByCode(quiz.QuizCode); errors.Is(err, gorm.ErrRecordNotFound) {
			break
		}
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// GetMyQuizzes 作者的测验列表，附带题目数与作答数
func (s *QuizService) GetMyQuizzes(authorID uint) ([]QuizSummary, error) {
	quizzes, err := s.QuizRepo.FindByAuthor(authorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]QuizSummary, len(quizzes))
	for i, quiz := range quizzes {
		questions, _ := s.QuizRepo.CountQuestions(quiz.ID)
		attempts, _ := s.QuizRepo.CountAttempts(quiz.ID)
		summaries[i] = QuizSummary{
			Quiz:          quiz,
			QuestionCount: questions,
			AttemptCount:  attempts,
		}
	}
	return summaries, nil
}

// GetQuizByID 取单个测验，非所有者（管理员除外）返回 ErrNotOwner
func (s *QuizService) GetQuizByID(id string, userID uint, role model.UserRole) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.AuthorID != userID && role != model.Admin {
		return nil, util.ErrNotOwner
	}
	return quiz, nil
}

// UpdateQuiz 更新测验元信息
func (s *QuizService) UpdateQuiz(id string, userID uint, role model.UserRole, req *UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.GetQuizByID(id, userID, role)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.PIN = req.PIN
	quiz.TimeLimit = req.TimeLimit
	quiz.StartDate = req.StartDate
	quiz.EndDate = req.EndDate
	if req.Status != "" {
		quiz.Status = model.QuizStatus(req.Status)
	}
	if req.ShowScore != nil {
		quiz.ShowScore = *req.ShowScore
	}
	if req.RandomizeQuestions != nil {
		quiz.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.MaxAttempts != nil && *req.MaxAttempts > 0 {
		quiz.MaxAttempts = *req.MaxAttempts
	}

	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// DeleteQuiz 删除测验并级联清理题目、选项与作答记录
func (s *QuizService) DeleteQuiz(id string, userID uint, role model.UserRole) error {
	if _, err := s.GetQuizByID(id, userID, role); err != nil {
		return err
	}
	return s.QuizRepo.Delete(id)
}

// GetPublicQuizzes 公开目录，只含已发布且无 PIN 的测验
func (s *QuizService) GetPublicQuizzes() ([]QuizLobby, error) {
	quizzes, err := s.QuizRepo.FindPublic()
	if err != nil {
		return nil, err
	}

	lobbies := make([]QuizLobby, len(quizzes))
	for i := range quizzes {
		lobbies[i] = s.toLobby(&quizzes[i])
	}
	return lobbies, nil
}

// JoinByCode 通过邀请码进入候场页，未发布的测验不可见
func (s *QuizService) JoinByCode(quizCode string) (*QuizLobby, error) {
	quiz, err := s.QuizRepo.FindByCode(strings.ToUpper(quizCode))
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.Status != model.QuizPublished {
		return nil, util.ErrQuizNotAvailable
	}

	lobby := s.toLobby(quiz)
	return &lobby, nil
}

func (s *QuizService) toLobby(quiz *model.Quiz) QuizLobby {
	questionCount, _ := s.QuizRepo.CountQuestions(quiz.ID)
	lobby := QuizLobby{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Slug:          quiz.Slug,
		QuizCode:      quiz.QuizCode,
		Description:   quiz.Description,
		TimeLimit:     quiz.TimeLimit,
		QuestionCount: questionCount,
		IsPrivate:     quiz.PIN != nil && *quiz.PIN != "",
		ShowScore:     quiz.ShowScore,
		MaxAttempts:   quiz.MaxAttempts,
		StartDate:     quiz.StartDate,
		EndDate:       quiz.EndDate,
	}
	if quiz.Author != nil {
		lobby.AuthorName = quiz.Author.Name
	}
	return lobby
}
