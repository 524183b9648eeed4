package models

import "testing"

func TestMapDifficulty(t *testing.T) {
	cases := []struct {
		raw  string
		want Difficulty
	}{
		{"Vận dụng cao", DifficultyHighApplication},
		{"VẬN DỤNG CAO", DifficultyHighApplication},
		{"vận dụng", DifficultyApplication},
		{"Vận dụng", DifficultyApplication},
		{"thông hiểu", DifficultyUnderstanding},
		{"Thông hiểu", DifficultyUnderstanding},
		{"Nhận biết", DifficultyRecognition},
		// Unrecognized labels fall back to Recognition.
		{"medium", DifficultyRecognition},
		{"", DifficultyRecognition},
		{"advanced application cao", DifficultyHighApplication},
	}

	for _, tc := range cases {
		if got := MapDifficulty(tc.raw); got != tc.want {
			t.Errorf("MapDifficulty(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestQuizValidate(t *testing.T) {
	valid := func() *Quiz {
		return &Quiz{
			ID:    "quiz-1",
			Title: "Midterm",
			Questions: []Question{{
				ID:            "q1",
				Text:          "q",
				Options:       []string{"a", "b", "c", "d"},
				CorrectAnswer: 0,
			}},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid quiz rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Quiz)
	}{
		{"missing id", func(q *Quiz) { q.ID = "" }},
		{"missing title", func(q *Quiz) { q.Title = "" }},
		{"no questions", func(q *Quiz) { q.Questions = nil }},
		{"three options", func(q *Quiz) { q.Questions[0].Options = []string{"a", "b", "c"} }},
		{"five options", func(q *Quiz) { q.Questions[0].Options = append(q.Questions[0].Options, "e") }},
		{"correct answer negative", func(q *Quiz) { q.Questions[0].CorrectAnswer = -1 }},
		{"correct answer too large", func(q *Quiz) { q.Questions[0].CorrectAnswer = 4 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			quiz := valid()
			tc.mutate(quiz)
			if err := quiz.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
