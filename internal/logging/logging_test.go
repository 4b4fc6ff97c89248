package logging

import (
	"testing"
)

func TestNewLogger_Levels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "unknown", ""} {
		if logger := NewLogger(level); logger == nil {
			t.Errorf("NewLogger(%q) = nil", level)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{token: "", want: "****"},
		{token: "short", want: "****"},
		{token: "12345678", want: "****"},
		{token: "abcd1234efgh5678", want: "abcd...5678"},
	}
	for _, tc := range tests {
		if got := SanitizeToken(tc.token); got != tc.want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestWithJob(t *testing.T) {
	logger := NewLogger("info")
	if jl := WithJob(logger, "job-1", "concat"); jl == nil {
		t.Fatal("WithJob() = nil")
	}
}
