package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"engsmart/models"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	generationTimeout    = 120 * time.Second
	defaultSection       = "General"
)

// RawQuestion mirrors one question object in the generator's JSON reply.
type RawQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Difficulty    string   `json:"difficulty"`
	Explanation   string   `json:"explanation"`
	Section       string   `json:"section"`
}

// GeminiService calls the Gemini generateContent endpoint to produce a
// question set. One blocking request per generation, cancellable through
// the context; there is no streaming and no partial delivery.
type GeminiService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiService(apiKey, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultGeminiBaseURL,
		client:  &http.Client{Timeout: generationTimeout},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateQuestions asks the model for a full test on topic/grade and
// returns validated questions. Nothing is persisted here; a failed call
// surfaces as a GenerationError the teacher can retry.
func (s *GeminiService) GenerateQuestions(ctx context.Context, topic, grade string, count int) ([]models.Question, error) {
	if s.apiKey == "" {
		return nil, &GenerationError{Reason: "API key is missing"}
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(topic, grade, count)}}},
		},
		GenerationConfig: geminiGenerationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return nil, &GenerationError{Reason: "failed to build request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", s.baseURL, s.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &GenerationError{Reason: "failed to build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &GenerationError{Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &GenerationError{Reason: fmt.Sprintf("API returned status %d", resp.StatusCode)}
	}

	var payload geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, &GenerationError{Reason: "invalid response body", Err: err}
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return nil, &GenerationError{Reason: "no data returned from Gemini"}
	}

	var raw []RawQuestion
	if err := json.Unmarshal([]byte(payload.Candidates[0].Content.Parts[0].Text), &raw); err != nil {
		return nil, &GenerationError{Reason: "unparseable question payload", Err: err}
	}
	if len(raw) == 0 {
		return nil, &GenerationError{Reason: "empty question set"}
	}

	return BuildQuestions(raw)
}

// BuildQuestions converts raw generator records into validated questions,
// applying the difficulty mapping and section default.
func BuildQuestions(raw []RawQuestion) ([]models.Question, error) {
	now := time.Now().UnixMilli()
	questions := make([]models.Question, 0, len(raw))
	for i, r := range raw {
		if len(r.Options) != models.OptionCount {
			return nil, &GenerationError{Reason: fmt.Sprintf("question %d has %d options", i, len(r.Options))}
		}
		if r.CorrectAnswer < 0 || r.CorrectAnswer >= models.OptionCount {
			return nil, &GenerationError{Reason: fmt.Sprintf("question %d correct answer index %d out of range", i, r.CorrectAnswer)}
		}
		section := r.Section
		if section == "" {
			section = defaultSection
		}
		questions = append(questions, models.Question{
			ID:            fmt.Sprintf("%d-%d", now, i),
			Text:          r.Text,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Difficulty:    models.MapDifficulty(r.Difficulty),
			Explanation:   r.Explanation,
			Section:       section,
		})
	}
	return questions, nil
}

func buildPrompt(topic, grade string, count int) string {
	return fmt.Sprintf(`Create a comprehensive %d-question English test for Grade %s students in Vietnam (Secondary School - THCS).
The test MUST strictly follow the "Cong van 5512" matrix and structure:

1. STRUCTURE:
   - Part I: Phonetics - Focus on pronunciation and word stress.
   - Part II: Lexico-Grammar - Focus on "%s", tenses, vocabulary, and grammar of Grade %s.
   - Part III: Communication - Social interactions.
   - Part IV: Reading - Cloze test and reading comprehension passages.
   - Part V: Writing - Error identification and sentence transformation.

2. DIFFICULTY MATRIX:
   - 40%% Recognition (Nhận biết)
   - 30%% Understanding (Thông hiểu)
   - 20%% Application (Vận dụng)
   - 10%% High Application (Vận dụng cao)

3. FORMAT:
   - All questions must be 4-option multiple choice (A, B, C, D).
   - Provide explanation in Vietnamese for each question.
   - Output JSON ONLY: an array of objects with keys text, options, correctAnswer, difficulty, explanation, section.

Return an array of %d question objects.`, count, grade, topic, grade, count)
}
