// Package domain contains the core domain model for Docent.
//
// The domain is format- and filesystem-agnostic: it does not depend on YAML
// parsing, Markdown parsing, net/http, or the filesystem. Infra/adapters map
// into/from these types.
package domain
