package parser

import (
	"fmt"
	"strings"
)

// ParseError is a structured script-loading error with source location.
// Phase is "lexer", "parser" or "loader".
type ParseError struct {
	Phase   string
	Message string
	File    string
	Line    int
	Column  int

	// Context holds the source lines around the error with a ^ pointer
	// under the offending column.
	Context string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	loc := ""
	if e.File != "" {
		loc = e.File + ": "
	}
	if e.Context != "" {
		return fmt.Sprintf("%s%s error at line %d, column %d: %s\n%s",
			loc, e.Phase, e.Line, e.Column, e.Message, e.Context)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s%s error at line %d, column %d: %s",
			loc, e.Phase, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s%s error: %s", loc, e.Phase, e.Message)
}

func newParseError(message string, tok Token, source, file string) *ParseError {
	return &ParseError{
		Phase:   "parser",
		Message: message,
		File:    file,
		Line:    tok.Line,
		Column:  tok.Column,
		Context: GenerateErrorContext(source, tok.Line, tok.Column),
	}
}

// GenerateErrorContext renders the two lines before and after the error
// line with line numbers, marking the error line with > and the column
// with ^.
//
// Example output:
//
//	  2 | scene image "park.png";
//	  3 | narrator "hello";
//	> 4 | video play "a.mp4" fit fill;
//	    |                        ^
//	  5 | wait 0.5;
func GenerateErrorContext(source string, line, column int) string {
	if source == "" || line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}

	start := line - 3
	if start < 0 {
		start = 0
	}
	end := line + 2
	if end > len(lines) {
		end = len(lines)
	}

	var buf strings.Builder
	lineNumWidth := len(fmt.Sprintf("%d", end))

	for i := start; i < end; i++ {
		lineNum := i + 1
		if lineNum == line {
			buf.WriteString(fmt.Sprintf("> %*d | %s\n", lineNumWidth, lineNum, lines[i]))
			pointerIndent := 2 + lineNumWidth + 3
			if column > 0 {
				buf.WriteString(fmt.Sprintf("%s%s^\n", strings.Repeat(" ", pointerIndent), strings.Repeat(" ", column-1)))
			} else {
				buf.WriteString(fmt.Sprintf("%s^\n", strings.Repeat(" ", pointerIndent)))
			}
		} else {
			buf.WriteString(fmt.Sprintf("  %*d | %s\n", lineNumWidth, lineNum, lines[i]))
		}
	}

	return buf.String()
}
