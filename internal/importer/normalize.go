// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"path/filepath"
	"strings"
)

var allowedExtensions = map[string]bool{
	"md":       true,
	"markdown": true,
	"txt":      true,
}

// Normalize validates a submission and produces the canonical payload.
// Checks run in a fixed order — title, method, source-specific checks,
// emptiness — and the first failure wins. Normalize never touches storage
// or the renderer, and calling it twice on the same request yields the
// same result.
func Normalize(req *Request) (*Normalized, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &ValidationError{msg: "Post title is required."}
	}

	var source string
	switch req.Method {
	case MethodUpload:
		f := req.File
		if f == nil || f.Filename == "" {
			return nil, &ValidationError{msg: "No file uploaded."}
		}
		// The extension is matched case-insensitively but echoed back
		// exactly as submitted.
		ext := strings.TrimPrefix(filepath.Ext(f.Filename), ".")
		if !allowedExtensions[strings.ToLower(ext)] {
			return nil, validationf("Invalid file extension: .%s. Allowed: .md, .markdown, .txt", ext)
		}
		if f.Err != nil {
			return nil, validationf("File upload error: %v", f.Err)
		}
		source = string(f.Data)
	case MethodPaste:
		if strings.TrimSpace(req.PastedText) == "" {
			return nil, &ValidationError{msg: "No markdown text was pasted."}
		}
		// Pasted text is used verbatim; only the blank check trims.
		source = req.PastedText
	default:
		return nil, &ValidationError{msg: "Please select an import method (Upload or Paste)."}
	}

	if strings.TrimSpace(source) == "" {
		return nil, &ValidationError{msg: "Content is empty."}
	}

	return &Normalized{
		Title:      title,
		CategoryID: req.CategoryID,
		Source:     source,
		ByteSize:   len(source),
		LineCount:  lineCount(source),
	}, nil
}
