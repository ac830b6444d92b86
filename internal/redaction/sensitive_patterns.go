package redaction

import (
	"regexp"
)

// SensitivePatterns contains compiled patterns for detecting sensitive information
type SensitivePatterns struct {
	// CredentialPatterns match credential-bearing log keys
	CredentialPatterns []*regexp.Regexp
	// EnvVarPatterns match sensitive environment variable names
	EnvVarPatterns []*regexp.Regexp
	// AllowedEnvVars are environment variable names that are always safe
	AllowedEnvVars map[string]bool
}

// DefaultSensitivePatterns returns a default set of sensitive patterns
func DefaultSensitivePatterns() *SensitivePatterns {
	credentialPatterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i)(password|passwd|token|secret|api_key)`),
		regexp.MustCompile(`(?i)credential`),
		regexp.MustCompile(`(?i)authorization`),
		regexp.MustCompile(`(?i)bearer`),
	}

	envVarPatterns := []*regexp.Regexp{
		regexp.MustCompile(`(?i).*PASSWORD.*`),
		regexp.MustCompile(`(?i).*PASSWD.*`),
		regexp.MustCompile(`(?i).*SECRET.*`),
		regexp.MustCompile(`(?i).*TOKEN.*`),
		regexp.MustCompile(`(?i).*CREDENTIAL.*`),
		regexp.MustCompile(`(?i).*SUDO_PASS.*`),
		regexp.MustCompile(`(?i).*API_KEY.*`),
	}

	allowedEnvVars := map[string]bool{
		"PATH":     true,
		"HOME":     true,
		"USER":     true,
		"LANG":     true,
		"SHELL":    true,
		"TERM":     true,
		"PWD":      true,
		"HOSTNAME": true,
		"LOGNAME":  true,
		"TZ":       true,
	}

	return &SensitivePatterns{
		CredentialPatterns: credentialPatterns,
		EnvVarPatterns:     envVarPatterns,
		AllowedEnvVars:     allowedEnvVars,
	}
}

// DefaultKeyValuePatterns returns the default key markers for key=value redaction
func DefaultKeyValuePatterns() []string {
	return []string{
		"password",
		"passwd",
		"token",
		"secret",
		"api_key",
		"Authorization",
	}
}

// IsSensitiveKey reports whether a log attribute key looks credential-bearing
func (p *SensitivePatterns) IsSensitiveKey(key string) bool {
	for _, re := range p.CredentialPatterns {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

// IsSensitiveEnvVar reports whether an environment variable name should be
// withheld from child processes and logs
func (p *SensitivePatterns) IsSensitiveEnvVar(name string) bool {
	if p.AllowedEnvVars[name] {
		return false
	}
	for _, re := range p.EnvVarPatterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}
