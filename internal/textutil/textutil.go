// Package textutil provides text processing helpers for observation input.
package textutil

import (
	"regexp"
	"strings"
)

var separatorRe = regexp.MustCompile(`[\s,;]+`)

// Symbols splits an observation sequence written as text into symbols.
// Commas, semicolons and whitespace all separate symbols; empty fields are dropped.
func Symbols(text string) []string {
	var out []string
	for _, s := range separatorRe.Split(strings.TrimSpace(text), -1) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Lines splits text into observation sequences, one per non-blank line.
// Lines starting with '#' are comments.
func Lines(text string) [][]string {
	var out [][]string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, Symbols(line))
	}
	return out
}
