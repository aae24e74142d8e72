// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import "fmt"

// ValidationError reports a rejected submission. The message is written for
// the admin filling in the form, not for a log file.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// RenderError reports a Markdown-to-HTML conversion failure. Detail is the
// renderer's own message.
type RenderError struct {
	Detail string
}

func (e *RenderError) Error() string { return "Parsing error: " + e.Detail }

// StoreError reports a failed post commit. The persistence layer's internals
// stay out of the user-facing message; details go to the server log.
type StoreError struct{}

func (e *StoreError) Error() string { return "database error: could not insert post" }
