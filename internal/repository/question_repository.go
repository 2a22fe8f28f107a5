package repository

import (
	"qurio_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// CreateWithOptions 题目与其选项在同一事务中落库
func (r *QuestionRepository) CreateWithOptions(question *model.Question, options []model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = question.ID
		}
		if len(options) > 0 {
			if err := tx.Create(&options).Error; err != nil {
				return err
			}
		}
		question.Options = options
		return nil
	})
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var q model.Question
	if err := r.DB.Preload("Options").Where("id = ?", id).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) FindByQuiz(quizID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Options").
		Where("quiz_id = ?", quizID).
		Order("created_at ASC").
		Find(&questions).Error
	return questions, err
}

// ReplaceOptions 更新题目并整体替换其选项：旧选项删除、新选项插入，同一事务保证原子性
func (r *QuestionRepository) ReplaceOptions(question *model.Question, options []model.Option) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(question).Error; err != nil {
			return err
		}
		if len(options) == 0 {
			return nil
		}
		if err := tx.Where("question_id = ?", question.ID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		for i := range options {
			options[i].QuestionID = question.ID
		}
		if err := tx.Create(&options).Error; err != nil {
			return err
		}
		question.Options = options
		return nil
	})
}

// Delete 删除题目及其选项
func (r *QuestionRepository) Delete(questionID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", questionID).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", questionID).Delete(&model.Question{}).Error
	})
}

func (r *QuestionRepository) FindOption(optionID string) (*model.Option, error) {
	var opt model.Option
	if err := r.DB.Where("id = ?", optionID).First(&opt).Error; err != nil {
		return nil, err
	}
	return &opt, nil
}
