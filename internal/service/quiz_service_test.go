package service

import (
	"strings"
	"testing"
	"time"

	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuizService(db *repository.QuizRepository) *QuizService {
	return NewQuizService(db)
}

func TestCreateQuizGeneratesSlugAndCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)

	quiz, err := svc.CreateQuiz(author.ID, &CreateQuizRequest{
		Title: "Kuis Sejarah Nasional!",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(quiz.Slug, "kuis-sejarah-nasional-"))
	assert.Equal(t, model.QuizDraft, quiz.Status)
	assert.True(t, quiz.ShowScore)
	assert.Equal(t, 1, quiz.MaxAttempts)

	assert.NotEmpty(t, quiz.QuizCode)
	assert.LessOrEqual(t, len(quiz.QuizCode), 10)
	assert.Equal(t, strings.ToUpper(quiz.QuizCode), quiz.QuizCode)
	for _, r := range quiz.QuizCode {
		assert.True(t, (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	}

	// 同名测验的 slug 不冲突
	time.Sleep(2 * time.Millisecond)
	second, err := svc.CreateQuiz(author.ID, &CreateQuizRequest{
		Title: "Kuis Sejarah Nasional!",
	})
	require.NoError(t, err)
	assert.NotEqual(t, quiz.Slug, second.Slug)
}

func TestUpdateQuizOwnership(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	other := createUser(t, db, "Penulis Lain", "penulis2", model.Author)
	quiz := createPublishedQuiz(t, db, author.ID, nil)

	req := &UpdateQuizRequest{Title: "Judul Baru", Status: "PUBLISHED"}

	_, err := svc.UpdateQuiz(quiz.ID, other.ID, model.Author, req)
	assert.ErrorIs(t, err, util.ErrNotOwner)

	updated, err := svc.UpdateQuiz(quiz.ID, author.ID, model.Author, req)
	require.NoError(t, err)
	assert.Equal(t, "Judul Baru", updated.Title)

	// 管理员可以修改任何测验
	_, err = svc.UpdateQuiz(quiz.ID, other.ID, model.Admin, req)
	assert.NoError(t, err)
}

func TestDeleteQuizCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	question := addQuestion(t, db, quiz.ID, 0)

	attemptSvc := newAttemptService(db)
	resp, err := attemptSvc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)
	_, err = attemptSvc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   correctOption(question).ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteQuiz(quiz.ID, author.ID, model.Author))

	// 级联删除后不留孤儿记录
	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"questions", &model.Question{}},
		{"options", &model.Option{}},
		{"attempts", &model.QuizAttempt{}},
		{"answers", &model.Answer{}},
	} {
		var count int64
		require.NoError(t, db.Model(check.model).Count(&count).Error)
		assert.Zero(t, count, check.name)
	}
}

func TestJoinByCode(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	pin := "1234"
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.QuizCode = "ABC123"
		q.PIN = &pin
	})
	addQuestion(t, db, quiz.ID, 0)

	lobby, err := svc.JoinByCode("abc123")
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, lobby.Title)
	assert.True(t, lobby.IsPrivate)
	assert.Equal(t, int64(1), lobby.QuestionCount)
	assert.Equal(t, "Penulis", lobby.AuthorName)

	_, err = svc.JoinByCode("TIDAKADA")
	assert.ErrorIs(t, err, util.ErrQuizNotFound)

	draft := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.QuizCode = "DRAFT1"
		q.Status = model.QuizDraft
	})
	_, err = svc.JoinByCode(draft.QuizCode)
	assert.ErrorIs(t, err, util.ErrQuizNotAvailable)
}

func TestPublicCatalogExcludesPrivate(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)

	public := createPublishedQuiz(t, db, author.ID, nil)
	pin := "1234"
	createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.PIN = &pin
	})
	createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.Status = model.QuizDraft
	})

	lobbies, err := svc.GetPublicQuizzes()
	require.NoError(t, err)
	require.Len(t, lobbies, 1)
	assert.Equal(t, public.ID, lobbies[0].ID)
}

func TestPublicCatalogTreatsEmptyPINAsOpen(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)

	// 空字符串 PIN 与 NULL 等价，开卷校验也视其为无 PIN
	empty := ""
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.PIN = &empty
	})

	lobbies, err := svc.GetPublicQuizzes()
	require.NoError(t, err)
	require.Len(t, lobbies, 1)
	assert.Equal(t, quiz.ID, lobbies[0].ID)
	assert.False(t, lobbies[0].IsPrivate)
}

func TestGetMyQuizzesCounts(t *testing.T) {
	db := setupTestDB(t)
	svc := newQuizService(repository.NewQuizRepository(db))
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	addQuestion(t, db, quiz.ID, 0)
	addQuestion(t, db, quiz.ID, 1)
	completeAttempt(t, db, quiz.ID, participant.ID, 80, time.Minute, time.Now())

	summaries, err := svc.GetMyQuizzes(author.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(2), summaries[0].QuestionCount)
	assert.Equal(t, int64(1), summaries[0].AttemptCount)
}
