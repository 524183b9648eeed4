package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"engsmart/models"
	"engsmart/storage"
)

// AttemptStatus tracks a student session: an attempt is created on
// successful access-code entry and becomes terminal on submission.
type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptSubmitted  AttemptStatus = "submitted"
)

// Attempt is the in-progress state of one student sitting one quiz.
// Attempts live in process memory only; the persisted record is the
// StudentSubmission written at submit time.
type Attempt struct {
	ID          string        `json:"id"`
	QuizID      string        `json:"quiz_id"`
	StudentName string        `json:"student_name"`
	Status      AttemptStatus `json:"status"`
	Answers     []int         `json:"answers"`
	StartedAt   int64         `json:"started_at"`
}

// UnansweredCount reports how many questions are still blank, so the
// caller can ask the student to confirm an incomplete submission. The
// engine itself never blocks on it.
func (a *Attempt) UnansweredCount() int {
	count := 0
	for _, answer := range a.Answers {
		if answer == models.UnansweredIndex {
			count++
		}
	}
	return count
}

// SubmissionService runs the attempt state machine and grades finished
// attempts against the quiz answer key.
type SubmissionService struct {
	store   storage.Store
	quizzes *QuizService

	mu       sync.RWMutex
	attempts map[string]*Attempt
}

func NewSubmissionService(store storage.Store, quizzes *QuizService) *SubmissionService {
	return &SubmissionService{
		store:    store,
		quizzes:  quizzes,
		attempts: make(map[string]*Attempt),
	}
}

type EnterExamRequest struct {
	Code        string `json:"code" binding:"required"`
	StudentName string `json:"student_name" binding:"required"`
}

type SelectAnswerRequest struct {
	QuestionIndex int `json:"question_index"`
	OptionIndex   int `json:"option_index"`
}

// ExamQuestion is the student's view of a question: no correct answer,
// no explanation until the attempt is submitted.
type ExamQuestion struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Section string   `json:"section,omitempty"`
}

// ExamView is what a student sees after entering an access code.
type ExamView struct {
	QuizID    string         `json:"quiz_id"`
	Title     string         `json:"title"`
	Grade     string         `json:"grade"`
	Questions []ExamQuestion `json:"questions"`
}

// ReviewItem pairs one question with the student's answer after grading.
type ReviewItem struct {
	QuestionID    string `json:"question_id"`
	Text          string `json:"text"`
	Answer        int    `json:"answer"`
	CorrectAnswer int    `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// NewExamView strips the answer key and explanations from a quiz.
func NewExamView(quiz *models.Quiz) *ExamView {
	view := &ExamView{
		QuizID:    quiz.ID,
		Title:     quiz.Title,
		Grade:     quiz.Grade,
		Questions: make([]ExamQuestion, 0, len(quiz.Questions)),
	}
	for _, question := range quiz.Questions {
		view.Questions = append(view.Questions, ExamQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Options: question.Options,
			Section: question.Section,
		})
	}
	return view
}

// EnterExam resolves an access code and opens a new attempt with every
// answer initialized to the unanswered sentinel. Entering the same quiz
// again opens an independent attempt; duplicates are not prevented.
func (s *SubmissionService) EnterExam(ctx context.Context, code, studentName string) (*Attempt, *models.Quiz, error) {
	if studentName == "" {
		return nil, nil, &ValidationError{Reason: "student name is required"}
	}

	// Codes are issued uppercase; normalize what the student typed. The
	// repository lookup itself stays exact-match.
	quiz, err := s.quizzes.GetQuizByAccessCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, nil, err
	}

	answers := make([]int, len(quiz.Questions))
	for i := range answers {
		answers[i] = models.UnansweredIndex
	}

	attempt := &Attempt{
		ID:          NewID(),
		QuizID:      quiz.ID,
		StudentName: studentName,
		Status:      AttemptInProgress,
		Answers:     answers,
		StartedAt:   time.Now().UnixMilli(),
	}

	s.mu.Lock()
	s.attempts[attempt.ID] = attempt
	s.mu.Unlock()

	return attempt, quiz, nil
}

// GetAttempt returns a snapshot of the attempt state.
func (s *SubmissionService) GetAttempt(attemptID string) (*Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	attempt, ok := s.attempts[attemptID]
	if !ok {
		return nil, ErrAttemptNotFound
	}
	snapshot := *attempt
	snapshot.Answers = append([]int(nil), attempt.Answers...)
	return &snapshot, nil
}

// SelectAnswer records the student's pick for one question. Repeated
// selections overwrite; the last write before submission wins.
func (s *SubmissionService) SelectAnswer(attemptID string, questionIndex, optionIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt, ok := s.attempts[attemptID]
	if !ok {
		return ErrAttemptNotFound
	}
	if attempt.Status == AttemptSubmitted {
		return ErrAttemptSubmitted
	}
	if questionIndex < 0 || questionIndex >= len(attempt.Answers) {
		return &ValidationError{Reason: fmt.Sprintf("question index %d out of range", questionIndex)}
	}
	if optionIndex < 0 || optionIndex >= models.OptionCount {
		return &ValidationError{Reason: fmt.Sprintf("option index %d out of range", optionIndex)}
	}

	attempt.Answers[questionIndex] = optionIndex
	return nil
}

// Submit grades the attempt and persists the submission record. Grading
// is pure computation, but submission is not idempotent: every call that
// reaches persistence appends a fresh, independent record. Re-entering
// the exam opens a new attempt, so nothing prevents duplicate records
// for the same student.
func (s *SubmissionService) Submit(ctx context.Context, attemptID string) (*models.StudentSubmission, []ReviewItem, error) {
	s.mu.Lock()
	attempt, ok := s.attempts[attemptID]
	if ok && attempt.Status == AttemptSubmitted {
		s.mu.Unlock()
		return nil, nil, ErrAttemptSubmitted
	}
	if ok {
		attempt.Status = AttemptSubmitted
	}
	s.mu.Unlock()

	if !ok {
		return nil, nil, ErrAttemptNotFound
	}

	revert := func() {
		s.mu.Lock()
		attempt.Status = AttemptInProgress
		s.mu.Unlock()
	}

	quiz, err := s.quizzes.GetQuizByID(ctx, attempt.QuizID)
	if err != nil {
		revert()
		return nil, nil, err
	}

	submission := &models.StudentSubmission{
		ID:             NewID(),
		QuizID:         quiz.ID,
		StudentName:    attempt.StudentName,
		Score:          Grade(quiz, attempt.Answers),
		TotalQuestions: len(quiz.Questions),
		SubmittedAt:    time.Now().UnixMilli(),
		Answers:        append([]int(nil), attempt.Answers...),
	}

	if err := s.saveSubmission(ctx, submission); err != nil {
		revert()
		return nil, nil, err
	}
	return submission, buildReview(quiz, submission.Answers), nil
}

func buildReview(quiz *models.Quiz, answers []int) []ReviewItem {
	review := make([]ReviewItem, 0, len(quiz.Questions))
	for i, question := range quiz.Questions {
		answer := models.UnansweredIndex
		if i < len(answers) {
			answer = answers[i]
		}
		review = append(review, ReviewItem{
			QuestionID:    question.ID,
			Text:          question.Text,
			Answer:        answer,
			CorrectAnswer: question.CorrectAnswer,
			Correct:       answer != models.UnansweredIndex && answer == question.CorrectAnswer,
			Explanation:   question.Explanation,
		})
	}
	return review
}

// Grade scores an answer vector against the quiz answer key. A question
// is correct iff the stored answer equals its correct index; the
// unanswered sentinel never matches because correct indices are always
// in [0,3]. The score is correct/total on a 10-point scale, unrounded.
func Grade(quiz *models.Quiz, answers []int) float64 {
	if len(quiz.Questions) == 0 {
		return 0
	}
	correct := 0
	for i, question := range quiz.Questions {
		if i >= len(answers) {
			break
		}
		if answers[i] != models.UnansweredIndex && answers[i] == question.CorrectAnswer {
			correct++
		}
	}
	return float64(correct) / float64(len(quiz.Questions)) * 10
}

// SubmissionsByQuiz returns all submissions for a quiz id, oldest first.
// It works even when the quiz itself has been deleted; orphaned
// submissions are retained.
func (s *SubmissionService) SubmissionsByQuiz(ctx context.Context, quizID string) ([]models.StudentSubmission, error) {
	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]models.StudentSubmission, 0)
	for _, submission := range submissions {
		if submission.QuizID == quizID {
			matched = append(matched, submission)
		}
	}
	return matched, nil
}

func (s *SubmissionService) saveSubmission(ctx context.Context, submission *models.StudentSubmission) error {
	submissions, err := s.loadSubmissions(ctx)
	if err != nil {
		return err
	}
	submissions = append(submissions, *submission)

	data, err := json.Marshal(submissions)
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	return s.store.Put(ctx, storage.SubmissionCollection, data)
}

func (s *SubmissionService) loadSubmissions(ctx context.Context) ([]models.StudentSubmission, error) {
	data, err := s.store.Get(ctx, storage.SubmissionCollection)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var submissions []models.StudentSubmission
	if err := json.Unmarshal(data, &submissions); err != nil {
		return nil, &storage.DeserializationError{Collection: storage.SubmissionCollection, Err: err}
	}
	return submissions, nil
}
