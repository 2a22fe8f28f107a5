package repository

import (
	"qurio_backend/internal/model"

	"gorm.io/gorm"
)

// AnalyticsRepository 分析模块只读查询，authorID 为 0 时表示全局（管理员视角）
type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// FindCompletedAttempts 取范围内所有已完成的作答
func (r *AnalyticsRepository) FindCompletedAttempts(authorID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_attempts.completed_at IS NOT NULL")
	if authorID != 0 {
		query = query.
			Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("quizzes.author_id = ?", authorID)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

// FindCompletedAttemptsByQuiz 取单个测验已完成的作答，含参与者信息
func (r *AnalyticsRepository) FindCompletedAttemptsByQuiz(quizID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Preload("Participant").
		Where("quiz_id = ? AND completed_at IS NOT NULL", quizID).
		Find(&attempts).Error
	return attempts, err
}

type quizAttemptCount struct {
	Title    string
	Attempts int64
}

// FindPopularQuizzes 按作答次数排序取前 limit 个已发布测验
func (r *AnalyticsRepository) FindPopularQuizzes(authorID uint, limit int) ([]model.PopularQuiz, error) {
	var rows []quizAttemptCount
	query := r.DB.Model(&model.Quiz{}).
		Select("quizzes.title AS title, COUNT(quiz_attempts.id) AS attempts").
		Joins("LEFT JOIN quiz_attempts ON quiz_attempts.quiz_id = quizzes.id AND quiz_attempts.deleted_at IS NULL").
		Where("quizzes.status = ?", model.QuizPublished).
		Group("quizzes.id, quizzes.title").
		Order("attempts DESC").
		Limit(limit)
	if authorID != 0 {
		query = query.Where("quizzes.author_id = ?", authorID)
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	popular := make([]model.PopularQuiz, len(rows))
	for i, row := range rows {
		popular[i] = model.PopularQuiz{Name: row.Title, TotalAttempts: row.Attempts}
	}
	return popular, nil
}

// FindRecentCompleted 取最近完成的 limit 条作答，按完成时间倒序
func (r *AnalyticsRepository) FindRecentCompleted(authorID uint, limit int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.DB.Preload("Participant").
		Preload("Quiz").
		Where("quiz_attempts.completed_at IS NOT NULL")
	if authorID != 0 {
		query = query.
			Joins("JOIN quizzes ON quizzes.id = quiz_attempts.quiz_id").
			Where("quizzes.author_id = ?", authorID)
	}
	err := query.Order("quiz_attempts.completed_at DESC").
		Limit(limit).
		Find(&attempts).Error
	return attempts, err
}
