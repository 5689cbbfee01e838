// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads the text content of .docx containers. A .docx file
// is a zip package whose main part, word/document.xml, holds the paragraph
// and table structure; the extractor flattens it to plain text in document
// order. It performs a single read and spawns nothing.
package extract

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// documentPart is the main body part of a .docx package.
const documentPart = "word/document.xml"

// ErrMalformed reports a container that cannot be opened as a valid zip/XML
// package or is missing its document part. A well-formed but empty document
// is not malformed; it extracts to the empty string.
var ErrMalformed = errors.New("malformed document")

// Text extracts the flattened text of the .docx at containerPath. Paragraphs
// are separated by newlines. Table rows are flattened one per line with cell
// text joined by tabs; no tabular layout is reconstructed.
func Text(containerPath string) (string, error) {
	r, err := zip.OpenReader(containerPath)
	if err != nil {
		return "", fmt.Errorf("%w: not a valid container: %v", ErrMalformed, err)
	}
	defer r.Close()

	var doc *zip.File
	for _, f := range r.File {
		if f.Name == documentPart {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("%w: missing %s", ErrMalformed, documentPart)
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("%w: opening %s: %v", ErrMalformed, documentPart, err)
	}
	defer rc.Close()

	text, err := flatten(rc)
	if err != nil {
		return "", fmt.Errorf("%w: parsing %s: %v", ErrMalformed, documentPart, err)
	}
	return text, nil
}

// flatten walks the WordprocessingML token stream and concatenates visible
// text runs, dropping all formatting markup.
func flatten(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		lines     []string
		para      strings.Builder
		cellParas []string
		cells     []string
		inText    bool
		tblDepth  int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				para.Reset()
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			case "tbl":
				tblDepth++
			case "tr":
				cells = nil
			case "tc":
				cellParas = nil
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if tblDepth > 0 {
					cellParas = append(cellParas, para.String())
				} else {
					lines = append(lines, para.String())
				}
				para.Reset()
			case "tc":
				cells = append(cells, strings.Join(cellParas, "\n"))
			case "tr":
				lines = append(lines, strings.Join(cells, "\t"))
			case "tbl":
				tblDepth--
			}
		}
	}

	return strings.Join(lines, "\n"), nil
}
