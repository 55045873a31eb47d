// Package domain contains the core model for vulimport: asset references, the
// resolved asset handle with its class tag, import reports and error kinds.
//
// The domain does not depend on YAML parsing, process environment, or the filesystem.
// Infra/adapters map into/from these types.
package domain
