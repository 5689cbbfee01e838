// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize converts legacy .doc files to the .docx container format
// by shelling out to LibreOffice in headless mode. No in-process library
// parses the legacy binary layout reliably, so the external tool is the only
// backend.
package normalize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	binSoffice     = "soffice"
	binLibreOffice = "libreoffice"

	// maxDiagnostic bounds how much converter stderr is carried in errors.
	// Raw tool output can contain filesystem paths; it is kept for logs,
	// never echoed to end users in full.
	maxDiagnostic = 512
)

// ErrNoOutput reports that the converter exited zero but produced no usable
// output file. LibreOffice can report success while silently writing
// nothing, so the post-condition is verified explicitly.
var ErrNoOutput = errors.New("converter produced no output")

// ErrTimeout reports that the converter exceeded its execution budget. The
// subprocess is killed so it cannot outlive the request.
var ErrTimeout = errors.New("converter timed out")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	// Run executes the command under ctx and returns captured stderr.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// osExecutor is the production executor backed by os/exec. CommandContext
// kills the subprocess when the context expires.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stderr.Bytes(), err
}

var defaultExec executor = osExecutor{}

// LibreOffice invokes the LibreOffice binary to normalize documents. Each
// invocation writes into its own target directory, so concurrent requests
// never share converter working state.
type LibreOffice struct {
	bin     string
	timeout time.Duration
	exec    executor
}

// Detect locates a LibreOffice binary on PATH, preferring soffice and
// falling back to libreoffice, and returns a normalizer bound to it with
// the given per-invocation timeout.
func Detect(timeout time.Duration) (*LibreOffice, error) {
	return detect(timeout, defaultExec)
}

func detect(timeout time.Duration, ex executor) (*LibreOffice, error) {
	for _, bin := range []string{binSoffice, binLibreOffice} {
		if _, err := ex.LookPath(bin); err == nil {
			return &LibreOffice{bin: bin, timeout: timeout, exec: ex}, nil
		}
	}
	return nil, fmt.Errorf("no document converter available: neither %s nor %s found on PATH",
		binSoffice, binLibreOffice)
}

// Bin returns the converter binary name.
func (l *LibreOffice) Bin() string { return l.bin }

// Normalize converts the .doc at inputPath into a .docx inside targetDir and
// returns the output path. One attempt only; failures carry a bounded
// diagnostic and are never retried here.
func (l *LibreOffice) Normalize(ctx context.Context, inputPath, targetDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	stderr, err := l.exec.Run(ctx, l.bin,
		"--headless", "--convert-to", "docx", "--outdir", targetDir, inputPath)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("%w after %s", ErrTimeout, l.timeout)
		}
		return "", fmt.Errorf("%s exited with error: %v: %s", l.bin, err, truncate(stderr))
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	outPath := filepath.Join(targetDir, base+".docx")
	info, err := os.Stat(outPath)
	if err != nil {
		return "", fmt.Errorf("%w: expected %s: %s", ErrNoOutput, filepath.Base(outPath), truncate(stderr))
	}
	if info.Size() == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrNoOutput, filepath.Base(outPath))
	}
	return outPath, nil
}

// truncate bounds converter stderr for inclusion in error messages.
func truncate(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxDiagnostic {
		s = s[:maxDiagnostic] + "..."
	}
	return s
}
