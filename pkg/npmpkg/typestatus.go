package npmpkg

import (
	"context"
	"strings"
)

// TypeStatus reports where type definitions for pkg come from: built-in,
// via DefinitelyTyped, or nowhere. The DefinitelyTyped probe assembles the
// corresponding @types/ package at its latest tag; any failure there means
// no types, not an error.
func (s *Service) TypeStatus(ctx context.Context, pkg *InternalPackage) TypeStatus {
	if pkg.TypesIncluded {
		return TypeStatus{Status: TypesBuiltIn}
	}

	dtName := DefinitelyTypedName(pkg.Name)
	_, err := s.GetPackage(ctx, Specifier{
		Type:      SpecifierTag,
		Name:      dtName,
		FetchSpec: "latest",
	})
	if err != nil {
		return TypeStatus{Status: TypesNone}
	}

	return TypeStatus{Status: TypesDefinitelyTyped, Package: dtName}
}

// DefinitelyTypedName maps a package name to its DefinitelyTyped package:
// "semver" becomes "@types/semver" and the scoped "@sveltejs/kit" becomes
// "@types/sveltejs__kit".
func DefinitelyTypedName(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@types/" + strings.Replace(strings.TrimPrefix(name, "@"), "/", "__", 1)
	}
	return "@types/" + name
}
