// Package utils provides shared utilities for text, math, and logging.
package utils

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Truncate returns s cut to maxLen runes, with "..." appended if it was cut.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen]) + "..."
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ContainsAny reports whether s contains any of the substrings.
func ContainsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// AppendUnique appends each item not already present in dst, preserving order.
func AppendUnique(dst []string, items ...string) []string {
	seen := make(map[string]struct{}, len(dst))
	for _, d := range dst {
		seen[d] = struct{}{}
	}
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		dst = append(dst, it)
	}
	return dst
}

// Cap returns at most n leading elements of s.
func Cap(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
