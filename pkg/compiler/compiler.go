package compiler

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	// DefaultTimeout bounds one pdflatex run.
	DefaultTimeout = 30 * time.Second

	sourceName   = "resume.tex"
	artifactName = "resume.pdf"
	logName      = "resume.log"
)

// Result reports one compilation attempt. PDF is set only on success; Reason
// explains a failure in terms a user can act on.
type Result struct {
	PDF    []byte
	OK     bool
	Reason string
}

// Compiler runs pdflatex over rendered markup in a scratch directory.
type Compiler struct {
	binary  string
	timeout time.Duration
}

// New creates a Compiler. An empty binary means "pdflatex" from PATH; a
// non-positive timeout means DefaultTimeout.
func New(binary string, timeout time.Duration) (c *Compiler) {
	if binary == "" {
		binary = "pdflatex"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c = &Compiler{binary: binary, timeout: timeout}
	return c
}

// Compile writes source into a fresh scratch directory, runs pdflatex there
// and inspects the outcome. The scratch directory is removed before
// returning, so the artifact is read into memory first.
//
// pdflatex often exits nonzero on recoverable warnings, so a non-empty PDF
// counts as success regardless of exit code.
func (c *Compiler) Compile(ctx context.Context, source string) (result Result, err error) {
	scratch, err := os.MkdirTemp("", "resumeforge-"+uuid.New().String())
	if err != nil {
		err = errors.Wrap(err, "failed to create scratch directory")
		return result, err
	}
	defer func() {
		removeErr := os.RemoveAll(scratch)
		if removeErr != nil && err == nil {
			err = errors.Wrapf(removeErr, "failed to remove scratch directory: %s", scratch)
		}
	}()

	sourcePath := filepath.Join(scratch, sourceName)
	err = os.WriteFile(sourcePath, []byte(source), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write source file: %s", sourcePath)
		return result, err
	}

	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, c.binary,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", scratch,
		sourcePath,
	)
	// Keep TeX from reading or writing state outside the scratch directory.
	cmd.Env = append(os.Environ(),
		"TEXMFOUTPUT="+scratch,
		"TEXMFVAR="+filepath.Join(scratch, "texmf-var"),
	)

	output, runErr := cmd.CombinedOutput()

	result = c.inspect(runCtx, scratch, output, runErr)
	return result, err
}

// inspect decides the outcome. Order matters: a usable artifact wins, then
// the specific failure classes, then the generic log diagnosis.
func (c *Compiler) inspect(ctx context.Context, scratch string, output []byte, runErr error) (result Result) {
	artifactPath := filepath.Join(scratch, artifactName)
	pdf, readErr := os.ReadFile(artifactPath)
	if readErr == nil && len(pdf) > 0 {
		result = Result{PDF: pdf, OK: true}
		return result
	}

	if runErr != nil {
		if errors.Is(runErr, exec.ErrNotFound) || errors.Is(runErr, fs.ErrNotExist) {
			result = Result{Reason: fmt.Sprintf("%s is not installed", c.binary)}
			return result
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			result = Result{Reason: "compilation timed out"}
			return result
		}
		result = Result{Reason: diagnose(scratch, output)}
		return result
	}

	result = Result{Reason: "PDF was not produced"}
	return result
}

// diagnose extracts the most useful error line. TeX marks errors with a
// leading "!" in its log; the last such line is usually the fatal one.
func diagnose(scratch string, output []byte) (reason string) {
	logData, err := os.ReadFile(filepath.Join(scratch, logName))
	if err == nil {
		last := ""
		for _, line := range strings.Split(string(logData), "\n") {
			if strings.HasPrefix(line, "!") {
				last = strings.TrimSpace(line)
			}
		}
		if last != "" {
			reason = last
			return reason
		}
	}

	tail := strings.TrimSpace(string(output))
	if len(tail) > 500 {
		tail = tail[len(tail)-500:]
	}
	if tail == "" {
		tail = "compilation failed"
	}
	reason = tail
	return reason
}
