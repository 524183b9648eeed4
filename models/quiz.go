package models

import (
	"errors"
	"fmt"
)

type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Grade      string     `json:"grade"`
	Topic      string     `json:"topic"`
	CreatedAt  int64      `json:"createdAt"` // unix milliseconds
	Questions  []Question `json:"questions"`
	AccessCode string     `json:"accessCode"`
	IsActive   bool       `json:"isActive"`
}

// Validate checks the quiz shape before it is persisted and again when it
// is loaded, so a corrupted store fails loudly instead of grading garbage.
func (q *Quiz) Validate() error {
	if q.ID == "" {
		return errors.New("quiz id is required")
	}
	if q.Title == "" {
		return errors.New("quiz title is required")
	}
	if len(q.Questions) == 0 {
		return errors.New("quiz must have at least one question")
	}
	for i, question := range q.Questions {
		if len(question.Options) != OptionCount {
			return fmt.Errorf("question %d: expected %d options, got %d", i, OptionCount, len(question.Options))
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= OptionCount {
			return fmt.Errorf("question %d: correct answer index %d out of range", i, question.CorrectAnswer)
		}
	}
	return nil
}
