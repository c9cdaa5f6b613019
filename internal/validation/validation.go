// Package validation provides input validation utilities.
//
// Provisioning steps pass configured values (package names, URLs)
// straight to shell commands, so everything user-configurable is
// validated before it reaches a command line.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// packageNamePattern follows Debian package naming: lowercase
	// alphanumeric plus +, -, . with a leading alphanumeric.
	packageNamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9+._-]*$`)

	// httpsURLPattern accepts https URLs with a sane character set.
	httpsURLPattern = regexp.MustCompile(`^https://[a-zA-Z0-9.-]+(?::[0-9]+)?[a-zA-Z0-9_./?=&%+-]*$`)

	// Dangerous characters that should never appear in shell-bound inputs.
	dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r", " "}
)

// ValidatePackageName validates an apt package name.
func ValidatePackageName(name string) error {
	if name == "" {
		return fmt.Errorf("package name cannot be empty")
	}
	if len(name) > 128 {
		return fmt.Errorf("package name too long (max 128 characters)")
	}
	if strings.ContainsRune(name, '\x00') {
		return fmt.Errorf("package name contains null byte")
	}
	for _, char := range dangerousChars {
		if strings.Contains(name, char) {
			return fmt.Errorf("package name contains invalid character: %q", char)
		}
	}
	if !packageNamePattern.MatchString(name) {
		return fmt.Errorf("invalid package name %q: must be lowercase alphanumeric with +, -, .", name)
	}
	return nil
}

// ValidateHTTPSURL validates a download URL. Only https is accepted;
// everything fetched during provisioning ends up executed or trusted.
func ValidateHTTPSURL(url string) error {
	if url == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	if len(url) > 2048 {
		return fmt.Errorf("URL too long (max 2048 characters)")
	}
	if strings.ContainsRune(url, '\x00') {
		return fmt.Errorf("URL contains null byte")
	}
	if !httpsURLPattern.MatchString(url) {
		return fmt.Errorf("invalid URL %q: must be https", url)
	}
	return nil
}

// ValidateShellPath validates a login shell path (e.g. /usr/bin/zsh).
func ValidateShellPath(path string) error {
	if path == "" {
		return fmt.Errorf("shell path cannot be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("shell path must be absolute: %q", path)
	}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return fmt.Errorf("shell path contains invalid character: %q", char)
		}
	}
	return nil
}
