package models

import "strings"

// Difficulty follows the "Cong van 5512" matrix labels. The Vietnamese
// strings are the persisted values, so they must not change.
type Difficulty string

const (
	DifficultyRecognition     Difficulty = "Nhận biết"
	DifficultyUnderstanding   Difficulty = "Thông hiểu"
	DifficultyApplication     Difficulty = "Vận dụng"
	DifficultyHighApplication Difficulty = "Vận dụng cao"
)

// OptionCount is fixed: every question is 4-option multiple choice (A-D).
const OptionCount = 4

// UnansweredIndex marks a question the student left blank. It is distinct
// from every valid option index, so a blank answer can never grade correct.
const UnansweredIndex = -1

type Question struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correctAnswer"` // index 0-3
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation,omitempty"`
	Section       string     `json:"section,omitempty"` // e.g. Phonetics, Reading, Writing
}

// MapDifficulty converts a free-text difficulty label from the generator
// into the enum. Matching is by lower-cased substring; anything
// unrecognized falls back to Recognition. "vận dụng cao" contains
// "vận dụng", so "cao" must be checked first.
func MapDifficulty(raw string) Difficulty {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "cao"):
		return DifficultyHighApplication
	case strings.Contains(s, "vận dụng"):
		return DifficultyApplication
	case strings.Contains(s, "thông hiểu"):
		return DifficultyUnderstanding
	default:
		return DifficultyRecognition
	}
}
