// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package importer

import (
	"fmt"
	"strings"
)

// humanSize formats a byte count for the import log (1024-based).
func humanSize(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}

// lineCount counts newline-delimited lines. Text with no newline is one
// line, and so is the empty string.
func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}
