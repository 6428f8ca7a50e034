package compiler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// fakeLatex writes a shell script standing in for pdflatex. The script
// receives the scratch directory as the argument after -output-directory.
func fakeLatex(t *testing.T, body string) (path string) {
	t.Helper()
	path = filepath.Join(t.TempDir(), "fakelatex")
	script := "#!/bin/sh\nscratch=\"$4\"\n" + body + "\n"
	err := os.WriteFile(path, []byte(script), 0700)
	if err != nil {
		t.Fatalf("Failed to write fake binary: %v", err)
	}
	return path
}

func TestCompileSuccess(t *testing.T) {
	binary := fakeLatex(t, `echo '%PDF-1.5 fake' > "$scratch/resume.pdf"`)
	c := New(binary, 5*time.Second)

	result, err := c.Compile(context.Background(), `\documentclass{article}\begin{document}hi\end{document}`)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !result.OK {
		t.Fatalf("Expected success, got reason: %q", result.Reason)
	}
	if !strings.HasPrefix(string(result.PDF), "%PDF") {
		t.Errorf("Unexpected artifact content: %q", result.PDF)
	}
}

func TestCompileSuccessDespiteNonzeroExit(t *testing.T) {
	binary := fakeLatex(t, `echo '%PDF-1.5 fake' > "$scratch/resume.pdf"; exit 1`)
	c := New(binary, 5*time.Second)

	result, err := c.Compile(context.Background(), "source")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if !result.OK {
		t.Errorf("Non-empty artifact should win over exit code, got reason: %q", result.Reason)
	}
}

func TestCompileNotInstalled(t *testing.T) {
	c := New("/nonexistent/pdflatex-binary", 5*time.Second)

	result, err := c.Compile(context.Background(), "source")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if result.OK {
		t.Fatal("Expected failure for missing binary")
	}
	if !strings.Contains(result.Reason, "is not installed") {
		t.Errorf("Reason = %q, want mention of missing install", result.Reason)
	}
}

func TestCompileTimeout(t *testing.T) {
	binary := fakeLatex(t, `sleep 5`)
	c := New(binary, 100*time.Millisecond)

	result, err := c.Compile(context.Background(), "source")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if result.OK {
		t.Fatal("Expected timeout failure")
	}
	if result.Reason != "compilation timed out" {
		t.Errorf("Reason = %q, want timeout reason", result.Reason)
	}
}

func TestCompileErrorFromLog(t *testing.T) {
	binary := fakeLatex(t, `cat > "$scratch/resume.log" <<'EOF'
This is pdfTeX
! Undefined control sequence.
l.5 \bogus
! Emergency stop.
EOF
exit 1`)
	c := New(binary, 5*time.Second)

	result, err := c.Compile(context.Background(), "source")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if result.OK {
		t.Fatal("Expected failure")
	}
	if result.Reason != "! Emergency stop." {
		t.Errorf("Reason = %q, want last bang line from the log", result.Reason)
	}
}

func TestCompileNoArtifactCleanExit(t *testing.T) {
	binary := fakeLatex(t, `exit 0`)
	c := New(binary, 5*time.Second)

	result, err := c.Compile(context.Background(), "source")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if result.OK {
		t.Fatal("Expected failure without artifact")
	}
	if result.Reason != "PDF was not produced" {
		t.Errorf("Reason = %q, want missing-artifact reason", result.Reason)
	}
}

func TestCompileFailureFallsBackToOutputTail(t *testing.T) {
	binary := fakeLatex(t, `echo "some stderr noise"; exit 1`)
	c := New(binary, 5*time.Second)

	result, err := c.Compile(context.Background(), "source")
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	if result.OK {
		t.Fatal("Expected failure")
	}
	if !strings.Contains(result.Reason, "some stderr noise") {
		t.Errorf("Reason = %q, want captured output", result.Reason)
	}
}
