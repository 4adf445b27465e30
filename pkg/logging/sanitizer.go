package logging

import (
	"regexp"
	"strings"
)

const (
	// MaxQueryLogLength is the maximum length of a query to log
	MaxQueryLogLength = 100
	// RedactedText is the replacement text for sensitive data
	RedactedText = "[REDACTED]"
)

var (
	// Pattern to match potential passwords in connection strings
	// Matches: password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Pattern to match connection string credentials (user:pass@host format)
	connStringPattern = regexp.MustCompile(`://[^:/]+:[^@]+@[^/\s]+`)

	// Pattern to match a trailing [SQL: ...] diagnostic tail that drivers
	// append to error messages. Stripped before the text reaches log_message.
	sqlTailPattern = regexp.MustCompile(`(?s)\s*\[SQL[:\s].*$`)
)

// SanitizeConnectionString removes sensitive data from connection strings.
// Use this before logging any target-DB DSN.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}

	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)

	return sanitized
}

// SanitizeError sanitizes error messages that might contain sensitive data.
// Use this before logging any error from target-DB operations.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return SanitizeConnectionString(err.Error())
}

// TruncateQuery shortens a query for logging.
func TruncateQuery(query string) string {
	q := strings.Join(strings.Fields(query), " ")
	if len(q) <= MaxQueryLogLength {
		return q
	}
	return q[:MaxQueryLogLength] + "..."
}

// StripSQLTail removes a trailing "[SQL ...]" diagnostic block from an error
// message so run log_message stays human-readable.
func StripSQLTail(message string) string {
	return strings.TrimSpace(sqlTailPattern.ReplaceAllString(message, ""))
}
