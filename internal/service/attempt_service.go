package service

import (
	"errors"
	"qurio_backend/internal/config"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"
	"qurio_backend/pkg/monitoring"
	"time"
)

// StartQuizRequest 开卷请求，私有测验必须携带 PIN
// swagger:model StartQuizRequest
type StartQuizRequest struct {
	QuizID string  `json:"quizId" binding:"required"`
	PIN    *string `json:"pin"`
}

// SaveAnswerRequest 单题作答请求
// swagger:model SaveAnswerRequest
type SaveAnswerRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	OptionID   string `json:"optionId" binding:"required"`
}

// StartQuizResponse 开卷响应，题目已按参与者视角投影
type StartQuizResponse struct {
	AttemptID string         `json:"attemptId"`
	QuizTitle string         `json:"quizTitle"`
	TimeLimit *int           `json:"timeLimit"`
	StartedAt time.Time      `json:"startedAt"`
	Questions []QuestionView `json:"questions"`
}

// FinishQuizResponse 交卷响应，始终返回完成时间，作者隐藏分数时 score 为空
type FinishQuizResponse struct {
	AttemptID      string    `json:"attemptId"`
	CompletedAt    time.Time `json:"completedAt"`
	Score          *float64  `json:"score,omitempty"`
	CorrectAnswers int64     `json:"correctAnswers,omitempty"`
	TotalQuestions int64     `json:"totalQuestions,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// ReviewAnswer 回顾页中的一题
type ReviewAnswer struct {
	QuestionContent string  `json:"questionContent"`
	SelectedOption  string  `json:"selectedOption"`
	CorrectOption   string  `json:"correctOption"`
	IsCorrect       bool    `json:"isCorrect"`
	ImageURL        *string `json:"imageUrl,omitempty"`
}

// AttemptReview 完成后的作答回顾
type AttemptReview struct {
	AttemptID   string         `json:"attemptId"`
	QuizTitle   string         `json:"quizTitle"`
	Score       float64        `json:"score"`
	StartedAt   time.Time      `json:"startedAt"`
	CompletedAt time.Time      `json:"completedAt"`
	Answers     []ReviewAnswer `json:"answers"`
}

// HistoryItem 参与者历史记录中的一行，score 可能是数字或 "Disembunyikan"
type HistoryItem struct {
	AttemptID   string      `json:"attemptId"`
	QuizTitle   string      `json:"quizTitle"`
	QuizSlug    string      `json:"quizSlug"`
	StartedAt   time.Time   `json:"startedAt"`
	CompletedAt *time.Time  `json:"completedAt"`
	Status      string      `json:"status"` // Selesai / Belum Selesai
	Score       interface{} `json:"score"`
}

// AttemptService 答题引擎：开卷、作答、交卷与回顾
type AttemptService struct {
	AttemptRepo  *repository.AttemptRepository
	QuizRepo     *repository.QuizRepository
	QuestionRepo *repository.QuestionRepository
	Cfg          *config.Config
}

func NewAttemptService(
	attemptRepo *repository.AttemptRepository,
	quizRepo *repository.QuizRepository,
	questionRepo *repository.QuestionRepository,
	cfg *config.Config,
) *AttemptService {
	return &AttemptService{
		AttemptRepo:  attemptRepo,
		QuizRepo:     quizRepo,
		QuestionRepo: questionRepo,
		Cfg:          cfg,
	}
}

// StartQuiz 开卷。校验顺序：发布状态、PIN、时间窗口、作答次数上限。
func (s *AttemptService) StartQuiz(participantID uint, req *StartQuizRequest) (*StartQuizResponse, error) {
	quiz, err := s.QuizRepo.FindByID(req.QuizID)
	if err != nil {
		return nil, util.ErrQuizNotFound
	}
	if quiz.Status != model.QuizPublished {
		return nil, util.ErrQuizNotAvailable
	}

	if quiz.PIN != nil && *quiz.PIN != "" {
		if req.PIN == nil || *req.PIN != *quiz.PIN {
			return nil, util.ErrWrongPIN
		}
	}

	now := time.Now()
	if quiz.StartDate != nil && now.Before(*quiz.StartDate) {
		return nil, util.ErrQuizNotStarted
	}
	if quiz.EndDate != nil && now.After(*quiz.EndDate) {
		return nil, util.ErrQuizClosed
	}

	attempt := &model.QuizAttempt{
		QuizID:        quiz.ID,
		ParticipantID: participantID,
		StartedAt:     now,
	}
	if err := s.AttemptRepo.CreateWithinLimit(attempt, quiz.MaxAttempts); err != nil {
		return nil, err
	}
	monitoring.AttemptsStarted.Inc()

	questions, err := s.QuestionRepo.FindByQuiz(quiz.ID)
	if err != nil {
		return nil, err
	}

	return &StartQuizResponse{
		AttemptID: attempt.ID,
		QuizTitle: quiz.Title,
		TimeLimit: quiz.TimeLimit,
		StartedAt: attempt.StartedAt,
		Questions: ProjectForParticipant(questions, quiz.RandomizeQuestions),
	}, nil
}

// loadOpenAttempt 取属于当前参与者且尚未交卷的作答
func (s *AttemptService) loadOpenAttempt(participantID uint, attemptID string) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByIDWithQuiz(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.ParticipantID != participantID {
		return nil, util.ErrNotOwner
	}
	if attempt.CompletedAt != nil {
		return nil, util.ErrAttemptClosed
	}
	return attempt, nil
}

// deadlineExceeded 限时测验在时限加宽限期之后拒绝写入
func (s *AttemptService) deadlineExceeded(attempt *model.QuizAttempt) bool {
	if attempt.Quiz == nil || attempt.Quiz.TimeLimit == nil {
		return false
	}
	grace := time.Duration(s.Cfg.Quiz.AnswerGraceSeconds) * time.Second
	deadline := attempt.StartedAt.
		Add(time.Duration(*attempt.Quiz.TimeLimit) * time.Minute).
		Add(grace)
	return time.Now().After(deadline)
}

// SaveAnswer 保存单题作答，同一题重复提交时覆盖之前的选择。
// 正确性在此刻快照，交卷阶段不再重算。
func (s *AttemptService) SaveAnswer(participantID uint, attemptID string, req *SaveAnswerRequest) (*model.Answer, error) {
	attempt, err := s.loadOpenAttempt(participantID, attemptID)
	if err != nil {
		return nil, err
	}
	if s.deadlineExceeded(attempt) {
		return nil, util.ErrTimeExpired
	}

	question, err := s.QuestionRepo.FindByID(req.QuestionID)
	if err != nil || question.QuizID != attempt.QuizID {
		return nil, util.ErrQuestionNotFound
	}

	// 选项不存在或不属于该题时按答错快照，不拒绝写入
	isCorrect := false
	option, err := s.QuestionRepo.FindOption(req.OptionID)
	if err == nil && option.QuestionID == question.ID {
		isCorrect = option.IsCorrect
	}

	answer := &model.Answer{
		AttemptID:  attemptID,
		QuestionID: req.QuestionID,
		OptionID:   req.OptionID,
		IsCorrect:  isCorrect,
	}
	if err := s.AttemptRepo.UpsertAnswer(answer); err != nil {
		return nil, err
	}
	return answer, nil
}

// FinishQuiz 交卷结算。得分 = 答对数 / 题目总数 × 100，无题目时记 0 分。
func (s *AttemptService) FinishQuiz(participantID uint, attemptID string) (*FinishQuizResponse, error) {
	attempt, err := s.loadOpenAttempt(participantID, attemptID)
	if err != nil {
		return nil, err
	}

	total, err := s.QuizRepo.CountQuestions(attempt.QuizID)
	if err != nil {
		return nil, err
	}
	correct, err := s.AttemptRepo.CountCorrectAnswers(attemptID)
	if err != nil {
		return nil, err
	}

	score := float64(0)
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}

	completedAt := time.Now()
	if err := s.AttemptRepo.Complete(attemptID, completedAt, score); err != nil {
		return nil, err
	}
	monitoring.AttemptsFinished.Inc()

	resp := &FinishQuizResponse{AttemptID: attemptID, CompletedAt: completedAt}
	if attempt.Quiz != nil && !attempt.Quiz.ShowScore {
		resp.Message = "Skor disembunyikan oleh pembuat kuis."
		return resp, nil
	}
	resp.Score = &score
	resp.CorrectAnswers = correct
	resp.TotalQuestions = total
	return resp, nil
}

// GetReview 作答回顾。仅本人可见，且测验须开启 showScore 并已交卷。
func (s *AttemptService) GetReview(participantID uint, attemptID string, role model.UserRole) (*AttemptReview, error) {
	attempt, err := s.AttemptRepo.FindByIDFull(attemptID)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.ParticipantID != participantID && role != model.Admin {
		return nil, util.ErrNotOwner
	}
	if attempt.CompletedAt == nil {
		return nil, errors.New("pengerjaan kuis belum diselesaikan")
	}
	if attempt.Quiz != nil && !attempt.Quiz.ShowScore && role != model.Admin {
		return nil, util.ErrReviewHidden
	}

	review := &AttemptReview{
		AttemptID:   attempt.ID,
		StartedAt:   attempt.StartedAt,
		CompletedAt: *attempt.CompletedAt,
	}
	if attempt.Quiz != nil {
		review.QuizTitle = attempt.Quiz.Title
	}
	if attempt.Score != nil {
		review.Score = *attempt.Score
	}

	review.Answers = make([]ReviewAnswer, 0, len(attempt.Answers))
	for _, answer := range attempt.Answers {
		item := ReviewAnswer{IsCorrect: answer.IsCorrect}
		if answer.Question != nil {
			item.QuestionContent = answer.Question.Content
			item.ImageURL = answer.Question.ImageURL
			correct, err := s.QuestionRepo.FindByID(answer.QuestionID)
			if err == nil {
				for _, opt := range correct.Options {
					if opt.IsCorrect {
						item.CorrectOption = opt.Content
						break
					}
				}
			}
		}
		if answer.Option != nil {
			item.SelectedOption = answer.Option.Content
		}
		review.Answers = append(review.Answers, item)
	}
	return review, nil
}

// GetMyHistory 参与者历史记录，按开始时间倒序
func (s *AttemptService) GetMyHistory(participantID uint) ([]HistoryItem, error) {
	attempts, err := s.AttemptRepo.FindByParticipant(participantID)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, len(attempts))
	for i, attempt := range attempts {
		item := HistoryItem{
			AttemptID:   attempt.ID,
			StartedAt:   attempt.StartedAt,
			CompletedAt: attempt.CompletedAt,
			Status:      "Belum Selesai",
		}
		if attempt.Quiz != nil {
			item.QuizTitle = attempt.Quiz.Title
			item.QuizSlug = attempt.Quiz.Slug
		}
		if attempt.CompletedAt != nil {
			item.Status = "Selesai"
			if attempt.Quiz != nil && !attempt.Quiz.ShowScore {
				item.Score = "Disembunyikan"
			} else if attempt.Score != nil {
				item.Score = *attempt.Score
			}
		}
		items[i] = item
	}
	return items, nil
}
