package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"engsmart/models"
)

func geminiReply(t *testing.T, questionsJSON string) []byte {
	t.Helper()
	payload := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content": map[string]interface{}{
					"parts": []map[string]string{{"text": questionsJSON}},
				},
			},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal reply: %v", err)
	}
	return data
}

func newTestGeminiService(t *testing.T, handler http.HandlerFunc) *GeminiService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service := NewGeminiService("test-key", "gemini-3-pro-preview")
	service.baseURL = server.URL
	return service
}

func TestGenerateQuestionsSuccess(t *testing.T) {
	questionsJSON := `[
		{"text":"Choose the word with a different stress pattern.","options":["teacher","window","police","mountain"],"correctAnswer":2,"difficulty":"Thông hiểu","explanation":"police nhấn âm 2","section":"Phonetics"},
		{"text":"She ___ to school every day.","options":["go","goes","going","gone"],"correctAnswer":1,"difficulty":"Vận dụng cao","explanation":"thì hiện tại đơn"}
	]`

	var gotPath, gotKey string
	service := newTestGeminiService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		w.Write(geminiReply(t, questionsJSON))
	})

	questions, err := service.GenerateQuestions(context.Background(), "Tenses", "8", 2)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if gotPath != "/models/gemini-3-pro-preview:generateContent" {
		t.Errorf("request path = %s", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[0].Difficulty != models.DifficultyUnderstanding {
		t.Errorf("questions[0].Difficulty = %s, want Understanding", questions[0].Difficulty)
	}
	if questions[1].Difficulty != models.DifficultyHighApplication {
		t.Errorf("questions[1].Difficulty = %s, want HighApplication", questions[1].Difficulty)
	}
	// Missing section defaults to General.
	if questions[1].Section != "General" {
		t.Errorf("questions[1].Section = %q, want General", questions[1].Section)
	}
	if questions[0].ID == "" || questions[0].ID == questions[1].ID {
		t.Error("questions need distinct generated ids")
	}
}

func TestGenerateQuestionsMissingAPIKey(t *testing.T) {
	service := NewGeminiService("", "gemini-3-pro-preview")

	_, err := service.GenerateQuestions(context.Background(), "Tenses", "8", 2)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
}

func TestGenerateQuestionsFailures(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			"api error status",
			func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			"unparseable body",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("not json at all"))
			},
		},
		{
			"no candidates",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"candidates":[]}`))
			},
		},
		{
			"question payload not json",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write(geminiReply(t, "sorry, I cannot help with that"))
			},
		},
		{
			"wrong option count",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write(geminiReply(t, `[{"text":"q","options":["a","b"],"correctAnswer":0,"difficulty":"","explanation":"","section":""}]`))
			},
		},
		{
			"correct answer out of range",
			func(w http.ResponseWriter, r *http.Request) {
				w.Write(geminiReply(t, `[{"text":"q","options":["a","b","c","d"],"correctAnswer":7,"difficulty":"","explanation":"","section":""}]`))
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := newTestGeminiService(t, tc.handler)
			_, err := service.GenerateQuestions(context.Background(), "Tenses", "8", 2)
			var genErr *GenerationError
			if !errors.As(err, &genErr) {
				t.Fatalf("expected GenerationError, got %v", err)
			}
		})
	}
}
