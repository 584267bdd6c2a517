// Package integrations provides HTTP clients for the upstream APIs that
// npm-alt consumes.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [npm]: the npm registry (packuments, version manifests, search)
//   - [unpkg]: the package file-bundle endpoint (raw published files, file listings)
//   - [github]: the GitHub release API (hosted release notes)
//
// # Client Pattern
//
// All clients follow a consistent pattern:
//
//	client := npm.NewClient(cfg.RegistryURL)
//	pkg, err := client.Packument(ctx, "svelte")
//
// Clients handle:
//   - The fixed identifying User-Agent on every request
//   - Status mapping (404 is surfaced as [ErrNotFound], distinct from [ErrNetwork])
//   - Retry with fixed delay on transient failures
//
// # Shared Infrastructure
//
// The [Client] type provides the shared HTTP plumbing used by all upstream
// clients. Derived-artifact caching happens one layer up, in pkg/cache; the
// clients themselves are stateless.
//
// [npm]: github.com/ghostdevv/npm-alt/pkg/integrations/npm
// [unpkg]: github.com/ghostdevv/npm-alt/pkg/integrations/unpkg
// [github]: github.com/ghostdevv/npm-alt/pkg/integrations/github
package integrations
