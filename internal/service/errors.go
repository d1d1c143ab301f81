package service

import "errors"

var (
	ErrSessionNotFound     = errors.New("diagnosis session not found")
	ErrQuestionSetNotFound = errors.New("question set not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrNoOptionSelected    = errors.New("select an option before continuing")
	ErrUnknownQuestion     = errors.New("unknown question")
	ErrUnknownOption       = errors.New("unknown option")
	ErrQuestionNotActive   = errors.New("question is not part of the current flow")
)
