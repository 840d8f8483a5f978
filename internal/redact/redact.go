// Package redact strips secrets and private content from strings before they
// are logged or returned in error responses. Journal sentences are private to
// their owner, and storage errors routinely carry connection URLs, file paths
// and SQL, so every error that reaches a log line passes through here.
package redact

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Placeholders substituted for redacted content.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// rule pairs a pattern with its replacement. Rules apply in order, so
// connection URLs are rewritten before the generic path rule can split them.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

var rules = []rule{
	// Userinfo in connection URLs: postgres://user:pw@host, redis://:pw@host.
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|pgx|redis|rediss|sqlite|file)://[^@\s/]*@`),
		"${1}://" + RedactedCredentialPlaceholder + "@",
	},
	// key=value DSN credentials: password=secret, pwd: secret.
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd)(\s*[=:]\s*['"]?)[^'"&\s]{3,}`),
		"${1}${2}" + RedactedCredentialPlaceholder,
	},
	// Secrets in environment-style assignments: ONELINE_REDIS_PASSWORD=...
	{
		regexp.MustCompile(`\b([A-Z][A-Z0-9_]*(?:PASSWORD|SECRET|TOKEN|KEY))=\S+`),
		"${1}=" + RedactedKeyPlaceholder,
	},
	// File paths of data files and migration sources.
	{regexp.MustCompile(`(/[\w.-]+){2,}`), RedactedPathPlaceholder},
	{regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`), RedactedPathPlaceholder},
	// Stack trace fragments from recovered panics.
	{regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`), "[STACK_TRACE_REDACTED]"},
	// SQL statements echoed by drivers.
	{
		regexp.MustCompile(
			`(?i)\b(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)\b[\s\w,*()$?]+\b(FROM|INTO|SET|TABLE|INDEX)\b[\s\w,*()$?='".]*`,
		),
		"[REDACTED_SQL]",
	},
	// host:port pairs of backing services.
	{
		regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`),
		"[REDACTED_HOST]",
	},
	{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}:\d{1,5}\b`), "[REDACTED_HOST]"},
}

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// Sentence describes a journal sentence without revealing it, for log lines
// that need to mention a submission.
func Sentence(s string) string {
	return fmt.Sprintf("[REDACTED_SENTENCE len=%d]", utf8.RuneCountInString(s))
}
