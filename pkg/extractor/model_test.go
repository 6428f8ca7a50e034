package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func TestParseModelResponse(t *testing.T) {
	original := "We need Python and PostgreSQL. Teamwork matters. Docker is a plus."

	response := `Here is the analysis.

TECHNICAL SKILLS:
- Python
- PostgreSQL
- Kubernetes

SOFT SKILLS:
- Teamwork

KEYWORDS:
- Docker
`

	result := parseModelResponse(response, original)

	// Kubernetes is not in the original text and must be discarded.
	wantTechnical := []string{"Python", "PostgreSQL"}
	if !reflect.DeepEqual(result.Technical, wantTechnical) {
		t.Errorf("Technical = %v, want %v", result.Technical, wantTechnical)
	}
	if !reflect.DeepEqual(result.Soft, []string{"Teamwork"}) {
		t.Errorf("Soft = %v, want [Teamwork]", result.Soft)
	}

	foundDocker := false
	for _, kw := range result.Keywords {
		if kw == "Docker" {
			foundDocker = true
		}
	}
	if !foundDocker {
		t.Errorf("Expected Docker in keywords, got %v", result.Keywords)
	}
}

func TestParseModelResponseUnparseable(t *testing.T) {
	result := parseModelResponse("I could not find anything useful.", "some job text")
	if !result.Empty() {
		t.Errorf("Expected empty result, got %+v", result)
	}
}

func geminiBody(text string) (body string) {
	body = fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
	return body
}

func TestModelExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiBody("TECHNICAL SKILLS:\n- Go\n- Docker\n\nSOFT SKILLS:\n\nKEYWORDS:\n- Go"))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", 5*time.Second)
	client.baseURL = server.URL

	m := NewModel(client, "gemini-1.5-flash", NewFallback(DefaultVocabulary()), slog.Default())

	result, err := m.Extract(context.Background(), "Go developer with Docker experience")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if !reflect.DeepEqual(result.Technical, []string{"Go", "Docker"}) {
		t.Errorf("Technical = %v, want [Go Docker]", result.Technical)
	}
}

func TestModelExtractRotatesOnModelNotFound(t *testing.T) {
	var models []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		models = append(models, r.URL.Path)
		if len(models) == 1 {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":404,"message":"model not found"}}`)
			return
		}
		fmt.Fprint(w, geminiBody("TECHNICAL SKILLS:\n- Rust"))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", 5*time.Second)
	client.baseURL = server.URL

	m := NewModel(client, "gemini-bogus", NewFallback(DefaultVocabulary()), slog.Default())

	result, err := m.Extract(context.Background(), "Rust engineer wanted")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(models) != 2 {
		t.Fatalf("Expected 2 requests (original + rotated), got %d", len(models))
	}
	if models[0] == models[1] {
		t.Error("Expected the retry to use a different model")
	}
	if !reflect.DeepEqual(result.Technical, []string{"Rust"}) {
		t.Errorf("Technical = %v, want [Rust]", result.Technical)
	}
}

func TestModelExtractFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", 5*time.Second)
	client.baseURL = server.URL

	m := NewModel(client, "gemini-1.5-flash", NewFallback(DefaultVocabulary()), slog.Default())

	// The fallback strategy must answer instead of surfacing the error.
	result, err := m.Extract(context.Background(), "Python developer")
	if err != nil {
		t.Fatalf("Expected graceful degrade, got error: %v", err)
	}
	if !reflect.DeepEqual(result.Technical, []string{"Python"}) {
		t.Errorf("Technical = %v, want [Python]", result.Technical)
	}
}

func TestModelExtractFallsBackOnEmptyParse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiBody("Sorry, I cannot help with that."))
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", 5*time.Second)
	client.baseURL = server.URL

	m := NewModel(client, "gemini-1.5-flash", NewFallback(DefaultVocabulary()), slog.Default())

	result, err := m.Extract(context.Background(), "Docker and Kubernetes administrator")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !reflect.DeepEqual(result.Technical, []string{"Docker", "Kubernetes"}) {
		t.Errorf("Technical = %v, want [Docker Kubernetes]", result.Technical)
	}
}
