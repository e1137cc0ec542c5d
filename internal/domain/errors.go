package domain

import "errors"

var (
	ErrEmptyMessage     = errors.New("message cannot be empty")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMessageNotFound  = errors.New("message not found")
	ErrInvalidPath      = errors.New("invalid message path")
	ErrInvalidInput     = errors.New("invalid input")
	ErrForbidden        = errors.New("message belongs to another user")
)
