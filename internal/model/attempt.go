package model

import (
	"time"
)

// QuizAttempt 参与者的一次答题记录，completedAt 为空表示仍在进行中
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID        string     `gorm:"index;type:varchar(36);not null" json:"quizId"`
	ParticipantID uint       `gorm:"index;not null" json:"participantId"`
	StartedAt     time.Time  `json:"startedAt"`
	CompletedAt   *time.Time `json:"completedAt"`
	Score         *float64   `json:"score"`

	Quiz        *Quiz    `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
	Participant *User    `gorm:"foreignKey:ParticipantID" json:"participant,omitempty"`
	Answers     []Answer `gorm:"foreignKey:AttemptID" json:"answers,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// Answer 单题作答，isCorrect 在保存时快照，结算阶段不再重算
// swagger:model Answer
type Answer struct {
	UUIDBase
	AttemptID  string `gorm:"index:idx_attempt_question,unique;type:varchar(36);not null" json:"attemptId"`
	QuestionID string `gorm:"index:idx_attempt_question,unique;type:varchar(36);not null" json:"questionId"`
	OptionID   string `gorm:"type:varchar(36);not null" json:"optionId"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Option   *Option   `gorm:"foreignKey:OptionID" json:"option,omitempty"`
}

func (Answer) TableName() string {
	return "answers"
}
