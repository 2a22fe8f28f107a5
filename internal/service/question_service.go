package service

import (
	"errors"
	"math/rand"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"
)

// OptionRequest 创建/更新题目时的选项
// swagger:model OptionRequest
type OptionRequest struct {
	Content   string  `json:"content" binding:"required"`
	ImageURL  *string `json:"imageUrl"`
	IsCorrect bool    `json:"isCorrect"`
}

// QuestionRequest 创建/更新题目请求，更新时选项整体替换
// swagger:model QuestionRequest
type QuestionRequest struct {
	Type     string          `json:"type" binding:"required,oneof=MC_EASY MC_MEDIUM MC_HARD TRUE_FALSE"`
	Content  string          `json:"content" binding:"required"`
	ImageURL *string         `json:"imageUrl"`
	Options  []OptionRequest `json:"options" binding:"required,min=2,dive"`
}

// OptionView 面向参与者的选项投影，正确答案字段仅作者与管理员可见
type OptionView struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`
	ImageURL  *string `json:"imageUrl,omitempty"`
	IsCorrect *bool   `json:"isCorrect,omitempty"`
}

// QuestionView 面向参与者的题目投影
type QuestionView struct {
	ID       string             `json:"id"`
	Type     model.QuestionType `json:"type"`
	Content  string             `json:"content"`
	ImageURL *string            `json:"imageUrl,omitempty"`
	Options  []OptionView       `json:"options"`
}

// QuestionService 题目管理的业务逻辑
type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	QuizRepo     *repository.QuizRepository
}

func NewQuestionService(questionRepo *repository.QuestionRepository, quizRepo *repository.QuizRepository) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		QuizRepo:     quizRepo,
	}
}

func validateOptions(req *QuestionRequest) error {
	correct := 0
	for _, opt := range req.Options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return errors.New("setiap pertanyaan harus memiliki tepat satu jawaban benar")
	}
	if model.QuestionType(req.Type) == model.QuestionTrueNF && len(req.Options) != 2 {
		return errors.New("pertanyaan benar/salah harus memiliki tepat dua pilihan")
	}
	return nil
}

// CreateQuestion 为测验新增题目，题目与选项在同一事务内写入
func (s *QuestionService) CreateQuestion(quizID string, userID uint, role model.UserRole, req *QuestionRequest) (*model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.AuthorID != userID && role != model.Admin {
		return nil, util.ErrNotOwner
	}
	if err := validateOptions(req); err != nil {
		return nil, err
	}

	question := &model.Question{
		QuizID:   quizID,
		Type:     model.QuestionType(req.Type),
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	options := make([]model.Option, len(req.Options))
	for i, opt := range req.Options {
		options[i] = model.Option{
			Content:   opt.Content,
			ImageURL:  opt.ImageURL,
			IsCorrect: opt.IsCorrect,
		}
	}

	if err := s.QuestionRepo.CreateWithOptions(question, options); err != nil {
		return nil, err
	}
	return question, nil
}

// GetQuestions 取测验全部题目，作者视角含正确答案
func (s *QuestionService) GetQuestions(quizID string, userID uint, role model.UserRole) ([]model.Question, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.AuthorID != userID && role != model.Admin {
		return nil, util.ErrNotOwner
	}
	return s.QuestionRepo.FindByQuiz(quizID)
}

// ProjectForParticipant 参与者投影，剥离 isCorrect，按需打乱题目顺序
func ProjectForParticipant(questions []model.Question, randomize bool) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		options := make([]OptionView, len(q.Options))
		for j, opt := range q.Options {
			options[j] = OptionView{
				ID:       opt.ID,
				Content:  opt.Content,
				ImageURL: opt.ImageURL,
			}
		}
		views[i] = QuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Content:  q.Content,
			ImageURL: q.ImageURL,
			Options:  options,
		}
	}
	if randomize {
		rand.Shuffle(len(views), func(i, j int) {
			views[i], views[j] = views[j], views[i]
		})
	}
	return views
}

// ProjectForOwner 作者/管理员投影，保留正确答案标记
func ProjectForOwner(questions []model.Question) []QuestionView {
	views := make([]QuestionView, len(questions))
	for i, q := range questions {
		options := make([]OptionView, len(q.Options))
		for j, opt := range q.Options {
			isCorrect := opt.IsCorrect
			options[j] = OptionView{
				ID:        opt.ID,
				Content:   opt.Content,
				ImageURL:  opt.ImageURL,
				IsCorrect: &isCorrect,
			}
		}
		views[i] = QuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Content:  q.Content,
			ImageURL: q.ImageURL,
			Options:  options,
		}
	}
	return views
}

// UpdateQuestion 更新题目，提交选项时旧选项整体替换
func (s *QuestionService) UpdateQuestion(questionID string, userID uint, role model.UserRole, req *QuestionRequest) (*model.Question, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return nil, util.ErrQuestionNotFound
	}
	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.AuthorID != userID && role != model.Admin {
		return nil, util.ErrNotOwner
	}
	if err := validateOptions(req); err != nil {
		return nil, err
	}

	question.Type = model.QuestionType(req.Type)
	question.Content = req.Content
	question.ImageURL = req.ImageURL

	options := make([]model.Option, len(req.Options))
	for i, opt := range req.Options {
		options[i] = model.Option{
			QuestionID: questionID,
			Content:    opt.Content,
			ImageURL:   opt.ImageURL,
			IsCorrect:  opt.IsCorrect,
		}
	}

	if err := s.QuestionRepo.ReplaceOptions(question, options); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion 删除题目及其选项
func (s *QuestionService) DeleteQuestion(questionID string, userID uint, role model.UserRole) error {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		return util.ErrQuestionNotFound
	}
	quiz, err := s.QuizRepo.FindByID(question.QuizID)
	if err != nil {
		return util.ErrQuizNotFound
	}
	if quiz.AuthorID != userID && role != model.Admin {
		return util.ErrNotOwner
	}
	return s.QuestionRepo.Delete(questionID)
}
