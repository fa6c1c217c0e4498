package errors

import (
	"fmt"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// Pretty returns the error formatted for terminal display.
func (e *Error) Pretty(colors bool) string {
	paint := func(code, text string) string {
		if !colors {
			return text
		}
		return code + text + colorReset
	}

	var b strings.Builder
	b.WriteString(paint(colorRed+colorBold, "ERROR "))
	if e.Code != "" {
		b.WriteString(paint(colorBold, e.Code+": "))
	}
	b.WriteString(e.Message)
	if e.Category != "" {
		fmt.Fprintf(&b, " %s", paint(colorGray, "("+string(e.Category)+")"))
	}
	b.WriteString("\n")
	if e.Component != "" {
		fmt.Fprintf(&b, "  component: %s\n", e.Component)
	}
	if e.Wrapped != nil {
		fmt.Fprintf(&b, "  cause:     %v\n", e.Wrapped)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, "\n  %s\n", e.Detail)
	}
	return b.String()
}
