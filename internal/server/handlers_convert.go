// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/pdiddy/resume-builder/internal/convert"
)

// multipartOverhead covers multipart framing beyond the document payload
// itself when capping the request body.
const multipartOverhead = 1 << 20

// handleConvert accepts one uploaded .doc or .docx file and returns its
// extracted plain text. Failures use the kind-tagged envelope; the exact
// size check lives in the pipeline, the body cap here only stops oversized
// requests from being buffered.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		if isBodyTooLarge(err) {
			respondConversionError(w, http.StatusRequestEntityTooLarge,
				string(convert.KindPayloadTooLarge), "file too large")
			return
		}
		respondConversionError(w, http.StatusUnsupportedMediaType,
			string(convert.KindUnsupportedFormat), "no file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		if isBodyTooLarge(err) {
			respondConversionError(w, http.StatusRequestEntityTooLarge,
				string(convert.KindPayloadTooLarge), "file too large")
			return
		}
		log.Printf("server: reading upload: %v", err)
		respondConversionError(w, http.StatusInternalServerError,
			string(convert.KindInternalFault), "could not read upload")
		return
	}

	text, err := s.pipeline.Convert(r.Context(), convert.Upload{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		var cerr *convert.Error
		if errors.As(err, &cerr) {
			respondConversionError(w, cerr.Kind.HTTPStatus(), string(cerr.Kind), cerr.Message)
			return
		}
		log.Printf("server: convert: %v", err)
		respondConversionError(w, http.StatusInternalServerError,
			string(convert.KindInternalFault), "conversion failed unexpectedly")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
