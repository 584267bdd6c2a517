// Package npm implements the client for the npm registry HTTP API.
//
// Three endpoints are consumed:
//
//   - GET /{name}: the packument, holding dist-tags, all version manifests,
//     and the time map. Used by the specifier resolver and the package assembler.
//   - GET /{name}/{version}: a single version manifest.
//   - GET /-/v1/search?text=&size=&from=: paginated search, also used for
//     author package listings via the maintainer: qualifier.
//
// The packument's manifest fields with polymorphic JSON shapes (license,
// author, repository, deprecated) each have exactly one normalizing accessor
// on [Manifest]; funding and exports are kept raw and normalized by their
// consumers in pkg/npmpkg.
package npm
