package util

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncateString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxLen   int
		expected string
	}{
		{name: "short string unchanged", input: "hello", maxLen: 10, expected: "hello"},
		{name: "exact length unchanged", input: "hello", maxLen: 5, expected: "hello"},
		{name: "long string truncated", input: "hello world", maxLen: 8, expected: "hello..."},
		{name: "tiny maxLen collapses to ellipsis", input: "hello", maxLen: 3, expected: "..."},
		{name: "empty string unchanged", input: "", maxLen: 10, expected: ""},
		{name: "wide runes counted as runes", input: "日本語テスト", maxLen: 5, expected: "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateString(tt.input, tt.maxLen); got != tt.expected {
				t.Errorf("TruncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.expected)
			}
		})
	}
}

func TestTruncateANSI(t *testing.T) {
	styled := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render("hello world")

	if got := TruncateANSI("hello", 10); got != "hello" {
		t.Errorf("plain string modified: %q", got)
	}
	if got := TruncateANSI("hello world", 8); got != "hello..." {
		t.Errorf("plain truncation = %q, want %q", got, "hello...")
	}
	if got := TruncateANSI("hello", 2); got != "..." {
		t.Errorf("tiny width = %q, want ellipsis", got)
	}

	got := TruncateANSI(styled, 8)
	if w := lipgloss.Width(got); w > 8 {
		t.Errorf("styled truncation width = %d, want <= 8", w)
	}
}

func TestPadANSI(t *testing.T) {
	if got := PadANSI("ab", 5); got != "ab   " {
		t.Errorf("PadANSI = %q", got)
	}
	if got := PadANSI("abcdef", 5); got != "abcdef" {
		t.Errorf("overlong input modified: %q", got)
	}

	styled := lipgloss.NewStyle().Bold(true).Render("ab")
	if w := lipgloss.Width(PadANSI(styled, 5)); w != 5 {
		t.Errorf("styled pad width = %d, want 5", w)
	}
}
