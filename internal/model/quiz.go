package model

import (
	"time"
)

type QuizStatus string

const (
	QuizDraft     QuizStatus = "DRAFT"
	QuizPublished QuizStatus = "PUBLISHED"
	QuizInactive  QuizStatus = "INACTIVE"
	QuizArchived  QuizStatus = "ARCHIVED"
)

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	Title              string     `gorm:"size:255;not null" json:"title"`
	Slug               string     `gorm:"size:255;uniqueIndex;not null" json:"slug"`
	QuizCode           string     `gorm:"size:10;uniqueIndex;not null" json:"quizCode"`
	Description        string     `gorm:"type:text" json:"description"`
	PIN                *string    `gorm:"size:10" json:"pin,omitempty"`
	TimeLimit          *int       `json:"timeLimit,omitempty"` // Minutes
	Status             QuizStatus `gorm:"type:varchar(20);default:'DRAFT'" json:"status"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	ShowScore          bool       `gorm:"default:true" json:"showScore"`
	RandomizeQuestions bool       `gorm:"default:false" json:"randomizeQuestions"`
	MaxAttempts        int        `gorm:"default:1" json:"maxAttempts"`
	AuthorID           uint       `gorm:"index;not null" json:"authorId"`

	Author    *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type QuestionType string

const (
	QuestionMCEasy   QuestionType = "MC_EASY"
	QuestionMCMedium QuestionType = "MC_MEDIUM"
	QuestionMCHard   QuestionType = "MC_HARD"
	QuestionTrueNF   QuestionType = "TRUE_FALSE"
)

// swagger:model Question
type Question struct {
	UUIDBase
	QuizID   string       `gorm:"index;type:varchar(36);not null" json:"quizId"`
	Type     QuestionType `gorm:"size:20;not null" json:"type"`
	Content  string       `gorm:"type:text;not null" json:"content"`
	ImageURL *string      `gorm:"size:255" json:"imageUrl,omitempty"`

	Options []Option `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Option
type Option struct {
	UUIDBase
	QuestionID string  `gorm:"index;type:varchar(36);not null" json:"questionId"`
	Content    string  `gorm:"type:text;not null" json:"content"`
	ImageURL   *string `gorm:"size:255" json:"imageUrl,omitempty"`
	IsCorrect  bool    `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "options"
}
