package logging

import (
	"errors"
	"testing"
)

func TestSanitizeConnectionString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "keyword DSN with password",
			input:    "host=db port=5432 user=qc password=hunter2 dbname=demo",
			expected: "host=db port=5432 user=qc password=[REDACTED] dbname=demo",
		},
		{
			name:     "url DSN with credentials",
			input:    "postgres://qc:hunter2@db:5432/demo",
			expected: "postgres://[REDACTED]@[REDACTED]/demo",
		},
		{
			name:     "sqlserver semicolon DSN",
			input:    "server=db;user id=qc;password=hunter2;database=demo",
			expected: "server=db;user id=qc;password=[REDACTED];database=demo",
		},
		{
			name:     "no secrets untouched",
			input:    "host=db dbname=demo",
			expected: "host=db dbname=demo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeConnectionString(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeConnectionString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeError(t *testing.T) {
	if got := SanitizeError(nil); got != "" {
		t.Errorf("SanitizeError(nil) = %q, want empty", got)
	}

	err := errors.New("connect failed: postgres://qc:hunter2@db/demo")
	got := SanitizeError(err)
	if got != "connect failed: postgres://[REDACTED]@[REDACTED]/demo" {
		t.Errorf("unexpected sanitized error: %q", got)
	}
}

func TestStripSQLTail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips bracketed sql tail",
			input:    "division by zero [SQL: SELECT 1/0 FROM t]",
			expected: "division by zero",
		},
		{
			name:     "strips multiline tail",
			input:    "syntax error at or near FROM [SQL:\nSELECT *\nFROM]",
			expected: "syntax error at or near FROM",
		},
		{
			name:     "no tail untouched",
			input:    "connection refused",
			expected: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripSQLTail(tt.input); got != tt.expected {
				t.Errorf("StripSQLTail(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncateQuery(t *testing.T) {
	long := ""
	for i := 0; i < 50; i++ {
		long += "SELECT col "
	}
	got := TruncateQuery(long)
	if len(got) != MaxQueryLogLength+3 {
		t.Errorf("truncated length = %d, want %d", len(got), MaxQueryLogLength+3)
	}
}
