package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"qurio_backend/internal/config"
	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDBCounter int64

// setupTestDB 每个测试独立的内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:qurio_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-0123456789abcdef-0123456789",
			ExpireTime: time.Hour,
		},
		Quiz: config.QuizConfig{
			PassingScore:       70,
			AnswerGraceSeconds: 15,
		},
	}
}

func createUser(t *testing.T, db *gorm.DB, name, username string, role model.UserRole) *model.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{
		Name:     name,
		Username: username,
		Password: string(hashed),
		Role:     role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPublishedQuiz(t *testing.T, db *gorm.DB, authorID uint, mutate func(*model.Quiz)) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		Title:       "Kuis Matematika Dasar",
		Slug:        fmt.Sprintf("kuis-%d", atomic.AddInt64(&testDBCounter, 1)),
		QuizCode:    fmt.Sprintf("K%d", atomic.AddInt64(&testDBCounter, 1)),
		Status:      model.QuizPublished,
		ShowScore:   true,
		MaxAttempts: 1,
		AuthorID:    authorID,
	}
	if mutate != nil {
		mutate(quiz)
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

// addQuestion 添加一道单选题，第 correctIdx 个选项为正确答案
func addQuestion(t *testing.T, db *gorm.DB, quizID string, correctIdx int) *model.Question {
	t.Helper()

	question := &model.Question{
		QuizID:  quizID,
		Type:    model.QuestionMCEasy,
		Content: "Berapakah hasil 2 + 2?",
	}
	require.NoError(t, db.Create(question).Error)
	for i := 0; i < 4; i++ {
		option := &model.Option{
			QuestionID: question.ID,
			Content:    fmt.Sprintf("Jawaban %d", i+1),
			IsCorrect:  i == correctIdx,
		}
		require.NoError(t, db.Create(option).Error)
		question.Options = append(question.Options, *option)
	}
	return question
}

func correctOption(q *model.Question) *model.Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func wrongOption(q *model.Question) *model.Option {
	for i := range q.Options {
		if !q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

func newAttemptService(db *gorm.DB) *AttemptService {
	return NewAttemptService(
		repository.NewAttemptRepository(db),
		repository.NewQuizRepository(db),
		repository.NewQuestionRepository(db),
		testConfig(),
	)
}

func completeAttempt(t *testing.T, db *gorm.DB, quizID string, participantID uint, score float64, duration time.Duration, completedAt time.Time) *model.QuizAttempt {
	t.Helper()

	attempt := &model.QuizAttempt{
		QuizID:        quizID,
		ParticipantID: participantID,
		StartedAt:     completedAt.Add(-duration),
		CompletedAt:   &completedAt,
		Score:         &score,
	}
	require.NoError(t, db.Create(attempt).Error)
	return attempt
}
