package util

import "errors"

var (
	ErrUsernameTaken      = errors.New("username sudah digunakan")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizNotAvailable   = errors.New("quiz not available")
	ErrWrongPIN           = errors.New("wrong quiz pin")
	ErrQuizNotStarted     = errors.New("quiz schedule not started")
	ErrQuizClosed         = errors.New("quiz schedule closed")
	ErrMaxAttemptsReached = errors.New("max attempts reached")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrAttemptClosed      = errors.New("attempt already completed")
	ErrTimeExpired        = errors.New("time limit expired")
	ErrNotOwner           = errors.New("not the owner of this resource")
	ErrReviewHidden       = errors.New("review hidden by quiz author")
	ErrSelfDeletion       = errors.New("cannot delete own account")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrUserNotFound       = errors.New("user tidak ditemukan")
)
