package models

import "errors"

// Custom errors
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyGraded = errors.New("pick already graded")
	ErrInvalidResult = errors.New("invalid pick result")
)
