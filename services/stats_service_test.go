package services

import (
	"context"
	"math"
	"testing"

	"engsmart/models"
)

func seedSubmission(t *testing.T, service *SubmissionService, code, name string, answers map[int]int) *models.StudentSubmission {
	t.Helper()
	ctx := context.Background()
	attempt, _, err := service.EnterExam(ctx, code, name)
	if err != nil {
		t.Fatalf("EnterExam(%s): %v", name, err)
	}
	for question, option := range answers {
		if err := service.SelectAnswer(attempt.ID, question, option); err != nil {
			t.Fatalf("SelectAnswer(%s): %v", name, err)
		}
	}
	submission, _, err := service.Submit(ctx, attempt.ID)
	if err != nil {
		t.Fatalf("Submit(%s): %v", name, err)
	}
	return submission
}

func TestGetStatisticsNoSubmissions(t *testing.T) {
	submissions, quizzes := newTestSubmissionService(t, testQuiz("quiz-1", "ABC123", 100, true, 1))
	stats := NewStatsService(quizzes, submissions)

	result, err := stats.GetStatistics(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if result.HasData {
		t.Error("zero submissions should report no data")
	}
	if result.MeanScore != 0 {
		t.Errorf("mean over zero submissions = %v, want 0", result.MeanScore)
	}
	if result.QuestionCount != 1 || result.AccessCode != "ABC123" {
		t.Errorf("quiz header data missing: %+v", result)
	}
}

func TestGetStatisticsDeletedQuiz(t *testing.T) {
	submissions, quizzes := newTestSubmissionService(t, testQuiz("quiz-1", "ABC123", 100, true, 1))
	stats := NewStatsService(quizzes, submissions)
	ctx := context.Background()

	seedSubmission(t, submissions, "ABC123", "Linh", map[int]int{0: 1})
	if err := quizzes.DeleteQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}

	// No error: a deleted quiz yields an empty no-data result even
	// though its orphaned submissions still exist.
	result, err := stats.GetStatistics(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("GetStatistics on deleted quiz: %v", err)
	}
	if result.HasData || result.SubmissionCount != 0 {
		t.Errorf("deleted quiz should report no data, got %+v", result)
	}
}

func TestGetStatisticsMeanAndHistogram(t *testing.T) {
	// 4 questions, one correct answer each; scores land at 10, 7.5, 5
	// and 2.5 across all four buckets.
	submissions, quizzes := newTestSubmissionService(t, testQuiz("quiz-1", "ABC123", 100, true, 0, 1, 2, 3))
	stats := NewStatsService(quizzes, submissions)

	seedSubmission(t, submissions, "ABC123", "An", map[int]int{0: 0, 1: 1, 2: 2, 3: 3})
	seedSubmission(t, submissions, "ABC123", "Binh", map[int]int{0: 0, 1: 1, 2: 2})
	seedSubmission(t, submissions, "ABC123", "Chi", map[int]int{0: 0, 1: 1})
	seedSubmission(t, submissions, "ABC123", "Dung", map[int]int{0: 0})

	result, err := stats.GetStatistics(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	if !result.HasData {
		t.Fatal("expected data")
	}
	if math.Abs(result.MeanScore-6.25) > 1e-9 {
		t.Errorf("mean = %v, want 6.25", result.MeanScore)
	}

	total := 0
	for _, bucket := range result.Histogram {
		total += bucket.Count
		if bucket.Count != 1 {
			t.Errorf("bucket %s count = %d, want 1", bucket.Name, bucket.Count)
		}
	}
	if total != result.SubmissionCount {
		t.Errorf("histogram total %d != submission count %d", total, result.SubmissionCount)
	}
}

func TestHistogramBoundaries(t *testing.T) {
	histogram := emptyHistogram()
	cases := []struct {
		score  float64
		bucket string
	}{
		{0, "0-4"},
		{4.999, "0-4"},
		{5, "5-6.5"},
		{6.999, "5-6.5"},
		{7, "7-8.5"},
		{8.999, "7-8.5"},
		{9, "9-10"},
		{10, "9-10"}, // final bucket is closed at 10
	}
	for _, tc := range cases {
		if got := bucketFor(histogram, tc.score); got.Name != tc.bucket {
			t.Errorf("score %v landed in %s, want %s", tc.score, got.Name, tc.bucket)
		}
	}
}

func TestRosterRankedWithStableTies(t *testing.T) {
	submissions, quizzes := newTestSubmissionService(t, testQuiz("quiz-1", "ABC123", 100, true, 0, 1))
	stats := NewStatsService(quizzes, submissions)

	// Hoa and Lan tie at 5.0; Hoa submitted first and must stay first.
	seedSubmission(t, submissions, "ABC123", "Hoa", map[int]int{0: 0})
	seedSubmission(t, submissions, "ABC123", "Lan", map[int]int{1: 1})
	seedSubmission(t, submissions, "ABC123", "Mai", map[int]int{0: 0, 1: 1})

	result, err := stats.GetStatistics(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}

	got := make([]string, 0, len(result.Roster))
	for _, submission := range result.Roster {
		got = append(got, submission.StudentName)
	}
	want := []string{"Mai", "Hoa", "Lan"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("roster order %v, want %v", got, want)
		}
	}
}

func TestPerQuestionCorrectCounts(t *testing.T) {
	submissions, quizzes := newTestSubmissionService(t, testQuiz("quiz-1", "ABC123", 100, true, 0, 1))
	stats := NewStatsService(quizzes, submissions)

	seedSubmission(t, submissions, "ABC123", "An", map[int]int{0: 0, 1: 1})
	seedSubmission(t, submissions, "ABC123", "Binh", map[int]int{0: 0, 1: 3})
	seedSubmission(t, submissions, "ABC123", "Chi", nil)

	result, err := stats.GetStatistics(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("GetStatistics: %v", err)
	}
	want := []int{2, 1}
	for i, count := range result.CorrectCounts {
		if count != want[i] {
			t.Errorf("CorrectCounts[%d] = %d, want %d", i, count, want[i])
		}
	}
}
