package npmpkg

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/ghostdevv/npm-alt/pkg/errors"
)

// ParseSpecifier parses raw user input like "svelte", "svelte@latest",
// "@sveltejs/kit@^2.0.0", or "svelte@5.46.1" into a [Specifier].
//
// Classification: an exact semver version produces SpecifierVersion, a
// parseable semver range produces SpecifierRange, and anything else is
// treated as a dist-tag. A bare name defaults to the "latest" tag.
func ParseSpecifier(raw string) (Specifier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Specifier{}, errors.New(errors.ErrCodeInvalidSpecifier, "specifier cannot be empty")
	}

	name, fetchSpec := splitSpecifier(raw)
	if err := errors.ValidateNpmPackageName(name); err != nil {
		return Specifier{}, errors.Wrap(errors.ErrCodeInvalidSpecifier, err, "invalid specifier %q", raw)
	}

	if fetchSpec == "" {
		fetchSpec = "latest"
	}

	return Specifier{
		Type:      classifySpec(fetchSpec),
		Name:      name,
		FetchSpec: fetchSpec,
	}, nil
}

// splitSpecifier separates the name from the spec, accounting for the
// leading @ of scoped names.
func splitSpecifier(raw string) (name, fetchSpec string) {
	offset := 0
	if strings.HasPrefix(raw, "@") {
		offset = 1
	}

	if i := strings.Index(raw[offset:], "@"); i >= 0 {
		return raw[:offset+i], raw[offset+i+1:]
	}
	return raw, ""
}

func classifySpec(fetchSpec string) SpecifierType {
	if _, err := semver.StrictNewVersion(fetchSpec); err == nil {
		return SpecifierVersion
	}
	if isRangeSpec(fetchSpec) {
		return SpecifierRange
	}
	return SpecifierTag
}

// isRangeSpec reports whether fetchSpec parses as a semver range. Plain
// words like "latest" or "beta" fail constraint parsing and fall through
// to dist-tag handling.
func isRangeSpec(fetchSpec string) bool {
	_, err := semver.NewConstraint(fetchSpec)
	return err == nil
}

// IsRegistryRef reports whether name@version looks like a resolvable
// registry reference, as opposed to a URL, git, or local file dependency.
// This is a cheap syntactic check only; it does not guarantee the package
// exists in the registry.
func IsRegistryRef(name, version string) bool {
	if errors.ValidateNpmPackageName(name) != nil {
		return false
	}

	if strings.Contains(version, "://") {
		return false
	}
	for _, prefix := range []string{"git+", "github:", "gitlab:", "bitbucket:", "file:", "link:", "workspace:", "npm:", "path:"} {
		if strings.HasPrefix(version, prefix) {
			return false
		}
	}
	// Shorthand like "user/repo#branch".
	if strings.Contains(version, "/") {
		return false
	}

	return true
}
