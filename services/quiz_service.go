package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"engsmart/models"
	"engsmart/storage"
)

// QuestionGenerator produces a question set for a topic and grade. It is
// a single blocking call with no partial results; cancellation goes
// through the context.
type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, topic, grade string, count int) ([]models.Question, error)
}

// QuizService owns the quiz collection. All operations read the full
// collection, modify it and write it back; the store has no partial
// updates. Two concurrent writers race and the last put wins, which is
// accepted for a single-teacher deployment.
type QuizService struct {
	store     storage.Store
	generator QuestionGenerator
}

func NewQuizService(store storage.Store, generator QuestionGenerator) *QuizService {
	return &QuizService{store: store, generator: generator}
}

const (
	accessCodeLength  = 6
	accessCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// Collisions on a 6-char code are already unlikely for an
	// instructor-sized quiz list; after this many regeneration attempts
	// the last candidate is used as-is.
	accessCodeRetries = 3
)

type CreateQuizRequest struct {
	Title         string `json:"title" binding:"required"`
	Grade         string `json:"grade" binding:"required"`
	Topic         string `json:"topic" binding:"required"`
	QuestionCount int    `json:"question_count" binding:"required,min=1,max=50"`
}

// CreateAndPublishQuiz generates a question set, wraps it in a new active
// quiz with a fresh access code, and saves it. A generation failure
// leaves the store untouched.
func (s *QuizService) CreateAndPublishQuiz(ctx context.Context, req *CreateQuizRequest) (*models.Quiz, error) {
	if s.generator == nil {
		return nil, &GenerationError{Reason: "no question generator configured"}
	}
	if req.Title == "" {
		return nil, &ValidationError{Reason: "quiz title is required"}
	}

	questions, err := s.generator.GenerateQuestions(ctx, req.Topic, req.Grade, req.QuestionCount)
	if err != nil {
		return nil, err
	}

	code, err := s.GenerateAccessCode(ctx)
	if err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		ID:         NewID(),
		Title:      req.Title,
		Grade:      req.Grade,
		Topic:      req.Topic,
		CreatedAt:  time.Now().UnixMilli(),
		Questions:  questions,
		AccessCode: code,
		IsActive:   true,
	}
	if err := s.SaveQuiz(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// SaveQuiz upserts by id. An existing quiz is replaced in place so it
// keeps its position in the collection; a new one is appended.
func (s *QuizService) SaveQuiz(ctx context.Context, quiz *models.Quiz) error {
	if err := quiz.Validate(); err != nil {
		return &ValidationError{Reason: err.Error()}
	}

	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range quizzes {
		if quizzes[i].ID == quiz.ID {
			quizzes[i] = *quiz
			replaced = true
			break
		}
	}
	if !replaced {
		quizzes = append(quizzes, *quiz)
	}

	return s.persistQuizzes(ctx, quizzes)
}

// ListQuizzes returns all quizzes sorted newest first. The ordering is
// part of the contract: the most recent test is what a teacher looks
// for first.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]models.Quiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	sortQuizzesByCreatedAtDesc(quizzes)
	return quizzes, nil
}

// GetQuizByID returns the quiz regardless of its active state. Teacher
// views and grading use this; student entry goes through the access code.
func (s *QuizService) GetQuizByID(ctx context.Context, quizID string) (*models.Quiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].ID == quizID {
			return &quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

// GetQuizByAccessCode is the sole gate for student entry: exact,
// case-sensitive match, and only active quizzes resolve. A correct code
// for a deactivated quiz behaves exactly like an unknown code.
func (s *QuizService) GetQuizByAccessCode(ctx context.Context, code string) (*models.Quiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].AccessCode == code && quizzes[i].IsActive {
			return &quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

// ToggleActive flips the active gate. Toggling twice restores the
// original state and changes nothing else.
func (s *QuizService) ToggleActive(ctx context.Context, quizID string) (*models.Quiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].ID == quizID {
			quizzes[i].IsActive = !quizzes[i].IsActive
			if err := s.persistQuizzes(ctx, quizzes); err != nil {
				return nil, err
			}
			return &quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

// SetActive forces the gate to a specific state. Setting the current
// state is a no-op that still reports the quiz.
func (s *QuizService) SetActive(ctx context.Context, quizID string, active bool) (*models.Quiz, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range quizzes {
		if quizzes[i].ID == quizID {
			if quizzes[i].IsActive == active {
				return &quizzes[i], nil
			}
			quizzes[i].IsActive = active
			if err := s.persistQuizzes(ctx, quizzes); err != nil {
				return nil, err
			}
			return &quizzes[i], nil
		}
	}
	return nil, ErrQuizNotFound
}

// DeleteQuiz removes the quiz. Submissions for it are not touched; they
// stay retrievable by quiz id.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID string) error {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return err
	}

	filtered := quizzes[:0]
	found := false
	for _, quiz := range quizzes {
		if quiz.ID == quizID {
			found = true
			continue
		}
		filtered = append(filtered, quiz)
	}
	if !found {
		return ErrQuizNotFound
	}

	return s.persistQuizzes(ctx, filtered)
}

// GenerateAccessCode produces a short uppercase token for student entry.
// It checks existing quizzes and regenerates on collision a bounded
// number of times; a collision surviving all retries is accepted, which
// is a documented limitation of the short code format.
func (s *QuizService) GenerateAccessCode(ctx context.Context) (string, error) {
	quizzes, err := s.loadQuizzes(ctx)
	if err != nil {
		return "", err
	}

	inUse := make(map[string]bool, len(quizzes))
	for _, quiz := range quizzes {
		inUse[quiz.AccessCode] = true
	}

	code := randomAccessCode()
	for attempt := 0; attempt < accessCodeRetries && inUse[code]; attempt++ {
		code = randomAccessCode()
	}
	return code, nil
}

func (s *QuizService) loadQuizzes(ctx context.Context) ([]models.Quiz, error) {
	data, err := s.store.Get(ctx, storage.QuizCollection)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var quizzes []models.Quiz
	if err := json.Unmarshal(data, &quizzes); err != nil {
		return nil, &storage.DeserializationError{Collection: storage.QuizCollection, Err: err}
	}
	for i := range quizzes {
		if err := quizzes[i].Validate(); err != nil {
			return nil, &storage.DeserializationError{Collection: storage.QuizCollection, Err: err}
		}
	}
	return quizzes, nil
}

func (s *QuizService) persistQuizzes(ctx context.Context, quizzes []models.Quiz) error {
	data, err := json.Marshal(quizzes)
	if err != nil {
		return fmt.Errorf("failed to marshal quizzes: %w", err)
	}
	return s.store.Put(ctx, storage.QuizCollection, data)
}

func sortQuizzesByCreatedAtDesc(quizzes []models.Quiz) {
	sort.SliceStable(quizzes, func(i, j int) bool {
		return quizzes[i].CreatedAt > quizzes[j].CreatedAt
	})
}

func randomAccessCode() string {
	bytes := make([]byte, accessCodeLength)
	rand.Read(bytes)
	code := make([]byte, accessCodeLength)
	for i, b := range bytes {
		code[i] = accessCodeCharset[int(b)%len(accessCodeCharset)]
	}
	return string(code)
}

// NewID returns a fresh random identifier for quizzes and submissions.
func NewID() string {
	bytes := make([]byte, 8)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
