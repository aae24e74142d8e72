// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

// Method selects where the Markdown source comes from.
type Method string

const (
	MethodUpload Method = "upload"
	MethodPaste  Method = "paste"
)

// UploadedFile carries an uploaded file's metadata and bytes. Err holds a
// transport-level upload failure (truncated body, rejected part) that the
// validator reports after the extension check.
type UploadedFile struct {
	Filename string
	Size     int64
	Data     []byte
	Err      error
}

// Request is one import submission as received from the transport layer.
// Title and PastedText are passed through untrimmed; normalization decides
// what whitespace means.
type Request struct {
	Title      string
	CategoryID int // 0 means no category
	Method     Method
	File       *UploadedFile // set when Method is MethodUpload
	PastedText string        // set when Method is MethodPaste
}

// Normalized is the canonical payload produced by a successful validation
// pass. Source is the exact Markdown text that will be rendered.
type Normalized struct {
	Title      string
	CategoryID int
	Source     string
	ByteSize   int
	LineCount  int
}
