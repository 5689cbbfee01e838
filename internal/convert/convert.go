// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert orchestrates the document conversion pipeline: it
// validates an upload, stages it in a private workspace, normalizes legacy
// .doc input through the external converter, extracts text from the .docx
// container, and translates every internal failure into the public
// taxonomy. No internal error type crosses this boundary unconverted.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/resume-builder/internal/extract"
	"github.com/pdiddy/resume-builder/internal/normalize"
	"github.com/pdiddy/resume-builder/internal/workspace"
)

// Kind identifies a public failure category.
type Kind string

const (
	KindUnsupportedFormat Kind = "UnsupportedFormat"
	KindPayloadTooLarge   Kind = "PayloadTooLarge"
	KindConversionFailed  Kind = "ConversionFailed"
	KindMalformedDocument Kind = "MalformedDocument"
	KindExtractionFailed  Kind = "ExtractionFailed"
	KindInternalFault     Kind = "InternalFault"
)

// HTTPStatus maps a failure kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindConversionFailed, KindMalformedDocument, KindExtractionFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Error is the only failure type the pipeline returns. Message is bounded
// and safe to show to callers; full diagnostics go to the server log.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func failf(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Upload is one uploaded document, alive only for the duration of a request.
type Upload struct {
	Filename string
	Data     []byte
}

// Normalizer converts a legacy .doc at inputPath into a .docx inside
// targetDir and returns the output path.
type Normalizer interface {
	Normalize(ctx context.Context, inputPath, targetDir string) (string, error)
}

// Extractor produces flattened text from a .docx container.
type Extractor func(containerPath string) (string, error)

// Pipeline sequences workspace staging, normalization, and extraction for
// one request at a time. Every request runs independently against its own
// workspace; the pipeline holds no per-request state.
type Pipeline struct {
	workspaces *workspace.Manager
	normalizer Normalizer // nil when no converter binary is installed
	extract    Extractor
	maxBytes   int64
}

// New assembles a pipeline. normalizer may be nil when no converter was
// found at startup; .doc uploads then fail with InternalFault while .docx
// extraction keeps working.
func New(ws *workspace.Manager, normalizer Normalizer, extractor Extractor, maxBytes int64) *Pipeline {
	return &Pipeline{
		workspaces: ws,
		normalizer: normalizer,
		extract:    extractor,
		maxBytes:   maxBytes,
	}
}

// Convert runs one upload through the pipeline and returns the extracted
// text. Any returned error is a *Error. The workspace acquired for the
// request is released exactly once, on every exit path, including caller
// cancellation mid-conversion.
func (p *Pipeline) Convert(ctx context.Context, up Upload) (string, error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if ext != ".doc" && ext != ".docx" {
		return "", failf(KindUnsupportedFormat, "unsupported file type: only .doc and .docx are accepted")
	}
	if p.maxBytes > 0 && int64(len(up.Data)) > p.maxBytes {
		return "", failf(KindPayloadTooLarge, "file too large (max %d bytes)", p.maxBytes)
	}

	ws, err := p.workspaces.Acquire()
	if err != nil {
		log.Printf("convert: acquiring workspace: %v", err)
		return "", failf(KindInternalFault, "could not stage upload")
	}
	defer func() {
		if err := ws.Release(); err != nil {
			log.Printf("convert: releasing workspace: %v", err)
		}
	}()

	inputPath := ws.Join("upload" + ext)
	if err := os.WriteFile(inputPath, up.Data, 0o600); err != nil {
		log.Printf("convert: writing upload: %v", err)
		return "", failf(KindInternalFault, "could not stage upload")
	}

	containerPath := inputPath
	if ext == ".doc" {
		containerPath, err = p.normalizeDoc(ctx, inputPath, ws.Dir())
		if err != nil {
			return "", err
		}
	}

	text, err := p.extract(containerPath)
	if err != nil {
		if errors.Is(err, extract.ErrMalformed) {
			log.Printf("convert: %v", err)
			return "", failf(KindMalformedDocument, "file could not be opened as a valid document")
		}
		log.Printf("convert: extraction failed: %v", err)
		return "", failf(KindExtractionFailed, "failed to extract text from document")
	}
	return text, nil
}

// normalizeDoc runs the external converter for legacy input, translating its
// failures. The full converter diagnostic is logged; callers only see a
// short summary.
func (p *Pipeline) normalizeDoc(ctx context.Context, inputPath, targetDir string) (string, error) {
	if p.normalizer == nil {
		return "", failf(KindInternalFault, "server cannot convert .doc files (no converter installed)")
	}

	out, err := p.normalizer.Normalize(ctx, inputPath, targetDir)
	if err != nil {
		log.Printf("convert: normalization failed: %v", err)
		switch {
		case errors.Is(err, normalize.ErrTimeout):
			return "", failf(KindConversionFailed, "conversion timed out")
		case errors.Is(err, normalize.ErrNoOutput):
			return "", failf(KindConversionFailed, "converter produced no output")
		default:
			return "", failf(KindConversionFailed, "converter exited with an error")
		}
	}
	return out, nil
}
