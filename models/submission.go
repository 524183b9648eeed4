package models

type StudentSubmission struct {
	ID             string  `json:"id"`
	QuizID         string  `json:"quizId"`
	StudentName    string  `json:"studentName"`
	Score          float64 `json:"score"` // 0-10, unrounded
	TotalQuestions int     `json:"totalQuestions"`
	SubmittedAt    int64   `json:"submittedAt"` // unix milliseconds
	Answers        []int   `json:"answers"`     // option index per question, UnansweredIndex if blank
}
