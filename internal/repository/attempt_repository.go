package repository

import (
	"time"

	"qurio_backend/internal/model"
	"qurio_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithinLimit 在同一事务内完成次数校验与插入，避免并发开卷越过 maxAttempts。
// 先对测验行加 FOR UPDATE 锁，MySQL 的 REPEATABLE READ 下普通 COUNT 是快照读，
// 不加锁时两个并发事务都能通过校验。
func (r *AttemptRepository) CreateWithinLimit(attempt *model.QuizAttempt, maxAttempts int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", attempt.QuizID).
			First(&quiz).Error
		if err != nil {
			return err
		}

		var count int64
		err = tx.Model(&model.QuizAttempt{}).
			Where("quiz_id = ? AND participant_id = ?", attempt.QuizID, attempt.ParticipantID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if int(count) >= maxAttempts {
			return util.ErrMaxAttemptsReached
		}
		return tx.Create(attempt).Error
	})
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindByIDWithQuiz(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	if err := r.DB.Preload("Quiz").Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindByIDFull(id string) (*model.QuizAttempt, error) {
	var a model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Preload("Participant").
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.Option").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AttemptRepository) FindByParticipant(participantID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Quiz").
		Where("participant_id = ?", participantID).
		Order("started_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// UpsertAnswer 按 (attemptId, questionId) 保存作答，已存在则覆盖选项与快照
func (r *AttemptRepository) UpsertAnswer(answer *model.Answer) error {
	var existing model.Answer
	err := r.DB.Where("attempt_id = ? AND question_id = ?", answer.AttemptID, answer.QuestionID).
		First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if existing.ID == "" {
		return r.DB.Create(answer).Error
	}
	existing.OptionID = answer.OptionID
	existing.IsCorrect = answer.IsCorrect
	if err := r.DB.Save(&existing).Error; err != nil {
		return err
	}
	*answer = existing
	return nil
}

func (r *AttemptRepository) GetAnswers(attemptID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("attempt_id = ?", attemptID).Find(&answers).Error
	return answers, err
}

func (r *AttemptRepository) CountCorrectAnswers(attemptID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Answer{}).
		Where("attempt_id = ? AND is_correct = ?", attemptID, true).
		Count(&count).Error
	return count, err
}

// Complete 同一条 UPDATE 写入 completedAt 与 score
func (r *AttemptRepository) Complete(attemptID string, completedAt time.Time, score float64) error {
	return r.DB.Model(&model.QuizAttempt{}).
		Where("id = ?", attemptID).
		Updates(map[string]interface{}{
			"completed_at": completedAt,
			"score":        score,
		}).Error
}

// AttemptFilter 管理端全局作答列表筛选条件
type AttemptFilter struct {
	Search    string
	Status    string // COMPLETED / IN_PROGRESS
	StartDate *time.Time
	EndDate   *time.Time
}

func (r *AttemptRepository) FindPaginated(page, limit int, filter AttemptFilter) ([]model.QuizAttempt, int64, error) {
	var attempts []model.QuizAttempt
	var total int64

	query := r.DB.Model(&model.QuizAttempt{})

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.
			Joins("JOIN users ON users.id = quiz_attempts.participant_id").
			Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("users.name LIKE ? OR quizzes.title LIKE ?", term, term)
	}
	if filter.Status == "COMPLETED" {
		query = query.Where("quiz_attempts.completed_at IS NOT NULL")
	} else if filter.Status == "IN_PROGRESS" {
		query = query.Where("quiz_attempts.completed_at IS NULL")
	}
	if filter.StartDate != nil && filter.EndDate != nil {
		query = query.Where("quiz_attempts.started_at BETWEEN ? AND ?", filter.StartDate, filter.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Participant").
		Preload("Quiz").
		Offset(offset).Limit(limit).
		Order("quiz_attempts.started_at DESC").
		Find(&attempts).Error
	return attempts, total, err
}
