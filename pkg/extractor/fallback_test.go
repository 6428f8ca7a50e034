package extractor

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestFallbackBasicExtraction(t *testing.T) {
	f := NewFallback(DefaultVocabulary())

	result, err := f.Extract(context.Background(), "Looking for a Python and Go developer with Docker experience")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	want := []string{"Python", "Go", "Docker"}
	if !reflect.DeepEqual(result.Technical, want) {
		t.Errorf("Technical = %v, want %v", result.Technical, want)
	}
	if len(result.Soft) != 0 {
		t.Errorf("Expected no soft skills, got %v", result.Soft)
	}
	if !reflect.DeepEqual(result.Keywords, want) {
		t.Errorf("Keywords = %v, want %v", result.Keywords, want)
	}
}

func TestFallbackDeterminism(t *testing.T) {
	f := NewFallback(DefaultVocabulary())
	text := "Senior Rust engineer, PostgreSQL, Redis, Kafka, teamwork and leadership required"

	first, err := f.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		again, err := f.Extract(context.Background(), text)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d differs: %v vs %v", i, again, first)
		}
	}
}

func TestFallbackResultsAppearInText(t *testing.T) {
	f := NewFallback(DefaultVocabulary())
	text := "We use TypeScript, React and Node.js. Strong communication skills. Docker, Kubernetes, AWS."

	result, err := f.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	lower := strings.ToLower(text)
	for _, term := range append(append([]string{}, result.Technical...), result.Soft...) {
		if !strings.Contains(lower, strings.ToLower(term)) {
			t.Errorf("Term %q not found in input text", term)
		}
	}
}

func TestFallbackSingleLetterTerms(t *testing.T) {
	f := NewFallback(DefaultVocabulary())

	tests := []struct {
		name string
		text string
		want bool
		term string
	}{
		{name: "standalone C", text: "Experience with C and embedded systems", want: true, term: "C"},
		{name: "C inside word", text: "Cloud computing experience", want: false, term: "C"},
		{name: "standalone R", text: "Statistical analysis in R required", want: true, term: "R"},
		{name: "R inside word", text: "Ruby on Rails developer", want: false, term: "R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.Extract(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			found := false
			for _, term := range result.Technical {
				if term == tt.term {
					found = true
				}
			}
			if found != tt.want {
				t.Errorf("Term %q found=%v, want %v (technical: %v)", tt.term, found, tt.want, result.Technical)
			}
		})
	}
}

func TestFallbackCppSpellings(t *testing.T) {
	f := NewFallback(DefaultVocabulary())

	for _, text := range []string{"Modern C++ developer", "cpp experience required"} {
		result, err := f.Extract(context.Background(), text)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if len(result.Technical) == 0 || result.Technical[0] != "C++" {
			t.Errorf("Text %q: expected C++ first, got %v", text, result.Technical)
		}
	}
}

func TestFallbackCompositeRule(t *testing.T) {
	f := NewFallback(DefaultVocabulary())

	result, err := f.Extract(context.Background(), "Drone autopilot work with MAVSDK and ArduPilot")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	for _, want := range []string{"MAVSDK", "ArduPilot", "Raspberry Pi", "OpenCV"} {
		found := false
		for _, term := range result.Technical {
			if term == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %q in technical terms, got %v", want, result.Technical)
		}
	}

	// One term alone must not trigger the companions.
	result, err = f.Extract(context.Background(), "Integrated MAVSDK telemetry")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	for _, term := range result.Technical {
		if term == "Raspberry Pi" || term == "OpenCV" {
			t.Errorf("Companion term %q added without co-occurrence", term)
		}
	}
}

func TestFallbackCaps(t *testing.T) {
	f := NewFallback(DefaultVocabulary())

	// A text mentioning far more than the caps allow.
	text := strings.Join(DefaultVocabulary().Technical, ", ") + ". " + strings.Join(DefaultVocabulary().Soft, ", ")

	result, err := f.Extract(context.Background(), text)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(result.Technical) > MaxTechnical {
		t.Errorf("Technical terms over cap: %d", len(result.Technical))
	}
	if len(result.Soft) > MaxSoft {
		t.Errorf("Soft terms over cap: %d", len(result.Soft))
	}
	if len(result.Keywords) > MaxKeywords {
		t.Errorf("Keywords over cap: %d", len(result.Keywords))
	}
}

func TestLoadVocabulary(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vocab.yaml")

	content := "technical:\n  - Zig\n  - Odin\nsoft:\n  - patience\n"
	err := os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		t.Fatalf("Failed to write vocabulary file: %v", err)
	}

	vocab, err := LoadVocabulary(path)
	if err != nil {
		t.Fatalf("LoadVocabulary failed: %v", err)
	}
	if len(vocab.Technical) != 2 || vocab.Technical[0] != "Zig" {
		t.Errorf("Unexpected technical terms: %v", vocab.Technical)
	}

	f := NewFallback(vocab)
	result, err := f.Extract(context.Background(), "Zig systems programmer with patience")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(result.Technical) != 1 || result.Technical[0] != "Zig" {
		t.Errorf("Expected Zig, got %v", result.Technical)
	}
	if len(result.Soft) != 1 || result.Soft[0] != "patience" {
		t.Errorf("Expected patience, got %v", result.Soft)
	}
}

func TestLoadVocabularyNonexistent(t *testing.T) {
	_, err := LoadVocabulary("/nonexistent/vocab.yaml")
	if err == nil {
		t.Error("Expected error loading nonexistent vocabulary, got nil")
	}
}
