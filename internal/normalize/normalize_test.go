// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor simulates the LibreOffice binary. runFunc controls what one
// invocation does; availableBins controls LookPath.
type fakeExecutor struct {
	availableBins map[string]bool
	runFunc       func(ctx context.Context, name string, args ...string) ([]byte, error)

	gotName string
	gotArgs []string
}

func (f *fakeExecutor) LookPath(file string) (string, error) {
	if f.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (f *fakeExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.gotName = name
	f.gotArgs = args
	if f.runFunc != nil {
		return f.runFunc(ctx, name, args...)
	}
	return nil, nil
}

// writeOutput creates the .docx the converter is expected to produce.
func writeOutput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		bins    map[string]bool
		wantBin string
		wantErr bool
	}{
		{
			name:    "soffice preferred",
			bins:    map[string]bool{"soffice": true, "libreoffice": true},
			wantBin: "soffice",
		},
		{
			name:    "libreoffice fallback",
			bins:    map[string]bool{"libreoffice": true},
			wantBin: "libreoffice",
		},
		{
			name:    "neither available",
			bins:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, err := detect(time.Minute, &fakeExecutor{availableBins: tt.bins})
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no document converter available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBin, lo.Bin())
		})
	}
}

func TestNormalizeSuccess(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.doc")
	require.NoError(t, os.WriteFile(input, []byte("legacy"), 0o644))

	ex := &fakeExecutor{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			writeOutput(t, dir, "upload.docx", "container bytes")
			return nil, nil
		},
	}
	lo := &LibreOffice{bin: "soffice", timeout: time.Minute, exec: ex}

	out, err := lo.Normalize(context.Background(), input, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "upload.docx"), out)

	// The invocation names the headless conversion and the target directory.
	assert.Equal(t, "soffice", ex.gotName)
	assert.Equal(t, []string{"--headless", "--convert-to", "docx", "--outdir", dir, input}, ex.gotArgs)
}

func TestNormalizeNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.doc")
	require.NoError(t, os.WriteFile(input, []byte("legacy"), 0o644))

	ex := &fakeExecutor{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Fatal: source file could not be loaded"), errors.New("exit status 1")
		},
	}
	lo := &LibreOffice{bin: "soffice", timeout: time.Minute, exec: ex}

	_, err := lo.Normalize(context.Background(), input, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exited with error")
	assert.Contains(t, err.Error(), "could not be loaded")
}

func TestNormalizeMissingOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.doc")
	require.NoError(t, os.WriteFile(input, []byte("legacy"), 0o644))

	// Converter exits zero but writes nothing.
	lo := &LibreOffice{bin: "soffice", timeout: time.Minute, exec: &fakeExecutor{}}

	_, err := lo.Normalize(context.Background(), input, dir)
	require.ErrorIs(t, err, ErrNoOutput)
}

func TestNormalizeEmptyOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.doc")
	require.NoError(t, os.WriteFile(input, []byte("legacy"), 0o644))

	ex := &fakeExecutor{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			writeOutput(t, dir, "upload.docx", "")
			return nil, nil
		},
	}
	lo := &LibreOffice{bin: "soffice", timeout: time.Minute, exec: ex}

	_, err := lo.Normalize(context.Background(), input, dir)
	require.ErrorIs(t, err, ErrNoOutput)
}

func TestNormalizeTimeout(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.doc")
	require.NoError(t, os.WriteFile(input, []byte("legacy"), 0o644))

	ex := &fakeExecutor{
		runFunc: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			// Hang until the deadline fires, as a stuck converter would.
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	lo := &LibreOffice{bin: "soffice", timeout: 10 * time.Millisecond, exec: ex}

	_, err := lo.Normalize(context.Background(), input, dir)
	require.ErrorIs(t, err, ErrTimeout)
}

func TestTruncateBoundsDiagnostics(t *testing.T) {
	long := strings.Repeat("x", maxDiagnostic*3)
	got := truncate([]byte(long))
	assert.Len(t, got, maxDiagnostic+3)
	assert.True(t, strings.HasSuffix(got, "..."))
}
