// Package redaction provides shared redaction functionality for log records,
// captured command output, and child process environments.
package redaction

import (
	"log/slog"
	"strings"
)

// Config controls how sensitive information is redacted
type Config struct {
	// Placeholder is the placeholder used for redaction (e.g., "[REDACTED]")
	Placeholder string
	// Patterns contains the sensitive patterns to detect
	Patterns *SensitivePatterns
	// KeyValuePatterns contains keys for key=value redaction,
	// e.g. ["password", "token", "Authorization: "]
	KeyValuePatterns []string
}

// DefaultConfig returns default redaction configuration
func DefaultConfig() *Config {
	return &Config{
		Placeholder:      "[REDACTED]",
		Patterns:         DefaultSensitivePatterns(),
		KeyValuePatterns: DefaultKeyValuePatterns(),
	}
}

// RedactText removes or redacts potentially sensitive information from text
func (c *Config) RedactText(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, key := range c.KeyValuePatterns {
		result = c.redactKeyValue(result, key)
	}
	return result
}

// RedactLogAttribute redacts sensitive information from a log attribute
func (c *Config) RedactLogAttribute(attr slog.Attr) slog.Attr {
	if c.Patterns.IsSensitiveKey(attr.Key) {
		return slog.Attr{Key: attr.Key, Value: slog.StringValue(c.Placeholder)}
	}

	value := attr.Value
	if value.Kind() == slog.KindString {
		redacted := c.RedactText(value.String())
		if redacted != value.String() {
			return slog.Attr{Key: attr.Key, Value: slog.StringValue(redacted)}
		}
		return attr
	}

	if value.Kind() == slog.KindGroup {
		groupAttrs := value.Group()
		redactedAttrs := make([]slog.Attr, 0, len(groupAttrs))
		for _, groupAttr := range groupAttrs {
			redactedAttrs = append(redactedAttrs, c.RedactLogAttribute(groupAttr))
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(redactedAttrs...)}
	}

	return attr
}

// FilterEnviron returns a copy of environ (KEY=VALUE form) with entries
// whose names match sensitive patterns removed. Allowlisted variables are
// always kept. This keeps transient secrets out of child process
// environments.
func (c *Config) FilterEnviron(environ []string) []string {
	filtered := make([]string, 0, len(environ))
	for _, entry := range environ {
		name, _, found := strings.Cut(entry, "=")
		if !found {
			continue
		}
		if c.Patterns.IsSensitiveEnvVar(name) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}

// redactKeyValue redacts values appearing after "key=" or "key: " markers,
// case-insensitively. The value extends to the next whitespace character.
func (c *Config) redactKeyValue(text, key string) string {
	lower := strings.ToLower(text)
	lowerKey := strings.ToLower(key)

	var b strings.Builder
	pos := 0
	for {
		idx := strings.Index(lower[pos:], lowerKey)
		if idx < 0 {
			b.WriteString(text[pos:])
			break
		}
		idx += pos

		// The marker must be followed by a separator to count as key=value.
		rest := idx + len(lowerKey)
		if rest >= len(text) || (text[rest] != '=' && text[rest] != ':') {
			b.WriteString(text[pos : idx+len(lowerKey)])
			pos = idx + len(lowerKey)
			continue
		}

		valueStart := rest + 1
		for valueStart < len(text) && text[valueStart] == ' ' {
			valueStart++
		}
		valueEnd := valueStart
		for valueEnd < len(text) && !isSpace(text[valueEnd]) {
			valueEnd++
		}

		b.WriteString(text[pos:valueStart])
		if valueEnd > valueStart {
			b.WriteString(c.Placeholder)
		}
		pos = valueEnd
	}
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
