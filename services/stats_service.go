package services

import (
	"context"
	"errors"
	"sort"

	"engsmart/models"
)

// ScoreBucket is one histogram bar. Buckets cover the 10-point scale with
// the boundaries the dashboard has always shown: lower edge inclusive,
// upper edge exclusive, except the last bucket which includes 10.
type ScoreBucket struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// QuizStatistics is the read-side aggregate for one quiz. HasData is
// false when there is nothing to aggregate: no submissions, or the quiz
// itself no longer exists. CorrectCounts[i] is how many submissions
// answered question i correctly, for the per-question review table.
type QuizStatistics struct {
	QuizID          string                     `json:"quiz_id"`
	Title           string                     `json:"title,omitempty"`
	AccessCode      string                     `json:"access_code,omitempty"`
	QuestionCount   int                        `json:"question_count"`
	SubmissionCount int                        `json:"submission_count"`
	HasData         bool                       `json:"has_data"`
	MeanScore       float64                    `json:"mean_score"`
	Histogram       []ScoreBucket              `json:"histogram"`
	Roster          []models.StudentSubmission `json:"roster"`
	CorrectCounts   []int                      `json:"correct_counts,omitempty"`
}

// StatsService computes descriptive statistics over a quiz's
// submissions. Pure read path; nothing here writes to the store.
type StatsService struct {
	quizzes     *QuizService
	submissions *SubmissionService
}

func NewStatsService(quizzes *QuizService, submissions *SubmissionService) *StatsService {
	return &StatsService{quizzes: quizzes, submissions: submissions}
}

// GetStatistics aggregates all submissions for a quiz. A deleted or
// unknown quiz id yields an empty no-data result, not an error: the
// submissions may still exist but there is no answer key to report
// against.
func (s *StatsService) GetStatistics(ctx context.Context, quizID string) (*QuizStatistics, error) {
	stats := &QuizStatistics{QuizID: quizID, Histogram: emptyHistogram()}

	quiz, err := s.quizzes.GetQuizByID(ctx, quizID)
	if err != nil {
		if errors.Is(err, ErrQuizNotFound) {
			return stats, nil
		}
		return nil, err
	}
	stats.Title = quiz.Title
	stats.AccessCode = quiz.AccessCode
	stats.QuestionCount = len(quiz.Questions)

	submissions, err := s.submissions.SubmissionsByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	stats.SubmissionCount = len(submissions)
	if len(submissions) == 0 {
		return stats, nil
	}
	stats.HasData = true

	total := 0.0
	for _, submission := range submissions {
		total += submission.Score
		bucketFor(stats.Histogram, submission.Score).Count++
	}
	stats.MeanScore = total / float64(len(submissions))

	// Stable sort: ties keep submission order.
	roster := append([]models.StudentSubmission(nil), submissions...)
	sort.SliceStable(roster, func(i, j int) bool {
		return roster[i].Score > roster[j].Score
	})
	stats.Roster = roster

	stats.CorrectCounts = correctCounts(quiz, submissions)
	return stats, nil
}

func emptyHistogram() []ScoreBucket {
	return []ScoreBucket{
		{Name: "0-4"},
		{Name: "5-6.5"},
		{Name: "7-8.5"},
		{Name: "9-10"},
	}
}

func bucketFor(histogram []ScoreBucket, score float64) *ScoreBucket {
	switch {
	case score < 5:
		return &histogram[0]
	case score < 7:
		return &histogram[1]
	case score < 9:
		return &histogram[2]
	default:
		return &histogram[3]
	}
}

func correctCounts(quiz *models.Quiz, submissions []models.StudentSubmission) []int {
	counts := make([]int, len(quiz.Questions))
	for _, submission := range submissions {
		for i, question := range quiz.Questions {
			if i >= len(submission.Answers) {
				break
			}
			answer := submission.Answers[i]
			if answer != models.UnansweredIndex && answer == question.CorrectAnswer {
				counts[i]++
			}
		}
	}
	return counts
}
