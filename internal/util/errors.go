package util

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrAlreadyAssigned    = errors.New("questions already assigned")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNotAssigned        = errors.New("question not assigned to participant")
	ErrAlreadyAnswered    = errors.New("question already answered")
	ErrImageRequired      = errors.New("image answer required")
	ErrAnswerNotFound     = errors.New("answer not found")
	ErrQuestionReferenced = errors.New("question referenced by assignments or answers")
)
