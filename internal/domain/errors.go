package domain

import "errors"

var (
	// ErrQuizNotFound covers both an absent quiz and a quiz owned by someone
	// else; callers cannot tell the two apart, which keeps ownership
	// unprobeable.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a question id does not resolve.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound indicates the user document could not be loaded.
	ErrUserNotFound = errors.New("user not found")
	// ErrNoQuestions is returned when quiz-start filters match nothing.
	ErrNoQuestions = errors.New("no questions found for the specified criteria")
	// ErrInvalidAnswer marks an answer value that cannot be coerced to the
	// question's answer type.
	ErrInvalidAnswer = errors.New("invalid answer value")
)
