package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
// It rejects names that could be used for path traversal or injection attacks.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 214 characters (the npm registry limit)
//
// Registry-specific syntax is checked separately by [ValidateNpmPackageName].
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidPackage, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"//",   // Double slash
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// npmPackageNameRegex matches valid npm package names, including scoped names
// like @sveltejs/kit.
var npmPackageNameRegex = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	// npm names must be lowercase
	if strings.ToLower(name) != name {
		return New(ErrCodeInvalidPackage, "npm package names must be lowercase: %q", name)
	}

	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}

	return nil
}

// ValidateUsername validates an npm username for author package listings.
// Usernames share the unscoped package name syntax.
func ValidateUsername(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "username cannot be empty")
	}
	if err := ValidatePackageName(name); err != nil {
		return New(ErrCodeInvalidInput, "invalid username: %q", name)
	}
	if strings.ContainsAny(name, "/@") {
		return New(ErrCodeInvalidInput, "invalid username: %q", name)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
