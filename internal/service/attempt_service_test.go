package service

import (
	"testing"
	"time"

	"qurio_backend/internal/model"
	"qurio_backend/internal/repository"
	"qurio_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestStartQuizRejectsUnpublished(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.Status = model.QuizDraft
	})

	_, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	assert.ErrorIs(t, err, util.ErrQuizNotAvailable)
}

func TestStartQuizPIN(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	pin := "1234"
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.PIN = &pin
	})

	_, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	assert.ErrorIs(t, err, util.ErrWrongPIN)

	wrong := "9999"
	_, err = svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID, PIN: &wrong})
	assert.ErrorIs(t, err, util.ErrWrongPIN)

	_, err = svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID, PIN: &pin})
	assert.NoError(t, err)
}

func TestStartQuizTimeWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)

	future := time.Now().Add(time.Hour)
	notStarted := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.StartDate = &future
	})
	_, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: notStarted.ID})
	assert.ErrorIs(t, err, util.ErrQuizNotStarted)

	past := time.Now().Add(-time.Hour)
	closed := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.EndDate = &past
	})
	_, err = svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: closed.ID})
	assert.ErrorIs(t, err, util.ErrQuizClosed)
}

func TestStartQuizMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.MaxAttempts = 2
	})

	_, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)
	_, err = svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	_, err = svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	assert.ErrorIs(t, err, util.ErrMaxAttemptsReached)

	// 其他参与者不受影响
	other := createUser(t, db, "Peserta Lain", "peserta2", model.Participant)
	_, err = svc.StartQuiz(other.ID, &StartQuizRequest{QuizID: quiz.ID})
	assert.NoError(t, err)
}

func TestStartQuizHidesCorrectAnswers(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	addQuestion(t, db, quiz.ID, 0)
	addQuestion(t, db, quiz.ID, 2)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)
	require.Len(t, resp.Questions, 2)
	for _, q := range resp.Questions {
		require.Len(t, q.Options, 4)
		for _, opt := range q.Options {
			assert.Nil(t, opt.IsCorrect)
		}
	}
}

func TestSaveAnswerUpsert(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	question := addQuestion(t, db, quiz.ID, 0)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	// 先答错再改对，同一题只保留一条记录
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   wrongOption(question).ID,
	})
	require.NoError(t, err)
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   correctOption(question).ID,
	})
	require.NoError(t, err)

	answers, err := svc.AttemptRepo.GetAnswers(resp.AttemptID)
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.True(t, answers[0].IsCorrect)
	assert.Equal(t, correctOption(question).ID, answers[0].OptionID)
}

func TestSaveAnswerUnknownOptionCountsWrong(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	question := addQuestion(t, db, quiz.ID, 0)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	answer, err := svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   "tidak-ada",
	})
	require.NoError(t, err)
	assert.False(t, answer.IsCorrect)
}

func TestSaveAnswerGraceWindow(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	limit := 1
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.TimeLimit = &limit
	})
	question := addQuestion(t, db, quiz.ID, 0)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	// 时限已过但仍在 15 秒宽限期内
	started := time.Now().Add(-time.Minute - 10*time.Second)
	require.NoError(t, db.Model(&model.QuizAttempt{}).
		Where("id = ?", resp.AttemptID).
		Update("started_at", started).Error)
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   correctOption(question).ID,
	})
	assert.NoError(t, err)

	// 超出宽限期
	started = time.Now().Add(-time.Minute - 20*time.Second)
	require.NoError(t, db.Model(&model.QuizAttempt{}).
		Where("id = ?", resp.AttemptID).
		Update("started_at", started).Error)
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   correctOption(question).ID,
	})
	assert.ErrorIs(t, err, util.ErrTimeExpired)
}

func TestFinishQuizScore(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	q1 := addQuestion(t, db, quiz.ID, 0)
	q2 := addQuestion(t, db, quiz.ID, 1)
	q3 := addQuestion(t, db, quiz.ID, 2)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	for _, pair := range []struct {
		q   *model.Question
		opt *model.Option
	}{
		{q1, correctOption(q1)},
		{q2, correctOption(q2)},
		{q3, wrongOption(q3)},
	} {
		_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
			QuestionID: pair.q.ID,
			OptionID:   pair.opt.ID,
		})
		require.NoError(t, err)
	}

	result, err := svc.FinishQuiz(participant.ID, resp.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.InDelta(t, 200.0/3.0, *result.Score, 0.001)
	assert.Equal(t, int64(2), result.CorrectAnswers)
	assert.Equal(t, int64(3), result.TotalQuestions)

	// 交卷后不可再作答
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: q1.ID,
		OptionID:   correctOption(q1).ID,
	})
	assert.ErrorIs(t, err, util.ErrAttemptClosed)

	// 重复交卷同样被拒绝
	_, err = svc.FinishQuiz(participant.ID, resp.AttemptID)
	assert.ErrorIs(t, err, util.ErrAttemptClosed)
}

func TestFinishQuizNoQuestions(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	result, err := svc.FinishQuiz(participant.ID, resp.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
}

func TestFinishQuizHiddenScore(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.ShowScore = false
	})
	question := addQuestion(t, db, quiz.ID, 0)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   correctOption(question).ID,
	})
	require.NoError(t, err)

	result, err := svc.FinishQuiz(participant.ID, resp.AttemptID)
	require.NoError(t, err)
	assert.Nil(t, result.Score)
	assert.NotEmpty(t, result.Message)

	// 回顾同样被隐藏
	_, err = svc.GetReview(participant.ID, resp.AttemptID, model.Participant)
	assert.ErrorIs(t, err, util.ErrReviewHidden)

	// 历史记录中分数显示为占位文本
	history, err := svc.GetMyHistory(participant.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Selesai", history[0].Status)
	assert.Equal(t, "Disembunyikan", history[0].Score)
}

func TestGetReview(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Peserta", "peserta1", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)
	question := addQuestion(t, db, quiz.ID, 1)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)
	_, err = svc.SaveAnswer(participant.ID, resp.AttemptID, &SaveAnswerRequest{
		QuestionID: question.ID,
		OptionID:   wrongOption(question).ID,
	})
	require.NoError(t, err)

	// 未交卷不可回顾
	_, err = svc.GetReview(participant.ID, resp.AttemptID, model.Participant)
	assert.Error(t, err)

	_, err = svc.FinishQuiz(participant.ID, resp.AttemptID)
	require.NoError(t, err)

	review, err := svc.GetReview(participant.ID, resp.AttemptID, model.Participant)
	require.NoError(t, err)
	assert.Equal(t, quiz.Title, review.QuizTitle)
	require.Len(t, review.Answers, 1)
	assert.False(t, review.Answers[0].IsCorrect)
	assert.Equal(t, correctOption(question).Content, review.Answers[0].CorrectOption)
	assert.Equal(t, wrongOption(question).Content, review.Answers[0].SelectedOption)

	// 非本人不可回顾
	other := createUser(t, db, "Peserta Lain", "peserta2", model.Participant)
	_, err = svc.GetReview(other.ID, resp.AttemptID, model.Participant)
	assert.ErrorIs(t, err, util.ErrNotOwner)
}

func TestFinishQuizReturnsCompletedAt(t *testing.T) {
	db := setupTestDB(t)
	svc := newAttemptService(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Andi", "andi", model.Participant)

	quiz := createPublishedQuiz(t, db, author.ID, nil)
	addQuestion(t, db, quiz.ID, 0)

	resp, err := svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: quiz.ID})
	require.NoError(t, err)

	result, err := svc.FinishQuiz(participant.ID, resp.AttemptID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), result.CompletedAt, 5*time.Second)

	// 隐藏分数时也返回完成时间
	hidden := createPublishedQuiz(t, db, author.ID, func(q *model.Quiz) {
		q.ShowScore = false
	})
	addQuestion(t, db, hidden.ID, 0)

	resp, err = svc.StartQuiz(participant.ID, &StartQuizRequest{QuizID: hidden.ID})
	require.NoError(t, err)

	result, err = svc.FinishQuiz(participant.ID, resp.AttemptID)
	require.NoError(t, err)
	assert.Nil(t, result.Score)
	assert.WithinDuration(t, time.Now(), result.CompletedAt, 5*time.Second)
}

func TestCreateWithinLimitGuards(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewAttemptRepository(db)
	author := createUser(t, db, "Penulis", "penulis1", model.Author)
	participant := createUser(t, db, "Andi", "andi", model.Participant)
	quiz := createPublishedQuiz(t, db, author.ID, nil)

	first := &model.QuizAttempt{
		QuizID:        quiz.ID,
		ParticipantID: participant.ID,
		StartedAt:     time.Now(),
	}
	require.NoError(t, repo.CreateWithinLimit(first, 1))

	second := &model.QuizAttempt{
		QuizID:        quiz.ID,
		ParticipantID: participant.ID,
		StartedAt:     time.Now(),
	}
	assert.ErrorIs(t, repo.CreateWithinLimit(second, 1), util.ErrMaxAttemptsReached)

	// 校验前先锁测验行，测验不存在时直接报错
	ghost := &model.QuizAttempt{
		QuizID:        "tidak-ada",
		ParticipantID: participant.ID,
		StartedAt:     time.Now(),
	}
	assert.ErrorIs(t, repo.CreateWithinLimit(ghost, 1), gorm.ErrRecordNotFound)
}
