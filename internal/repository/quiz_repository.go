package repository

import (
	"qurio_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.Where("id = ?", id).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByCode(quizCode string) (*model.Quiz, error) {
	var quiz model.Quiz
	if err := r.DB.Preload("Author").Where("quiz_code = ?", quizCode).First(&quiz).Error; err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindBySlug(slug string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Author").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.created_at ASC")
		}).
		Preload("Questions.Options").
		Where("slug = ?", slug).
		First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByAuthor(authorID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// FindPublic 返回 PUBLISHED 且无 PIN 的公开目录
func (r *QuizRepository) FindPublic() ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Preload("Author").
		Where("status = ? AND (pin IS NULL OR pin = '')", model.QuizPublished).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// QuizFilter 管理端测验列表筛选条件
type QuizFilter struct {
	Status string
	Search string
}

func (r *QuizRepository) FindPaginated(page, limit int, filter QuizFilter) ([]model.Quiz, int64, error) {
	var quizzes []model.Quiz
	var total int64

	query := r.DB.Model(&model.Quiz{})

	if filter.Status != "" && filter.Status != "ALL" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR quiz_code LIKE ?", term, term)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Author").
		Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, total, err
}

func (r *QuizRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Count(&count).Error
	return count, err
}

func (r *QuizRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Quiz{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) CountByStatus(status model.QuizStatus, authorID uint) (int64, error) {
	var count int64
	query := r.DB.Model(&model.Quiz{}).Where("status = ?", status)
	if authorID != 0 {
		query = query.Where("author_id = ?", authorID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *QuizRepository) CountQuestions(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) CountAttempts(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// Delete 级联删除测验及其所有题目、选项、作答记录，置于同一事务
func (r *QuizRepository) Delete(quizID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []string
		if err := tx.Model(&model.Question{}).
			Where("quiz_id = ?", quizID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}

		var attemptIDs []string
		if err := tx.Model(&model.QuizAttempt{}).
			Where("quiz_id = ?", quizID).
			Pluck("id", &attemptIDs).Error; err != nil {
			return err
		}

		if len(attemptIDs) > 0 {
			if err := tx.Where("attempt_id IN ?", attemptIDs).Delete(&model.Answer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.QuizAttempt{}).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).Delete(&model.Option{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", quizID).Delete(&model.Quiz{}).Error
	})
}
