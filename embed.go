// Package subguard carries the files embedded into the bot binary.
package subguard

import "embed"

//go:embed migrations/*.sql
var MigrationsFS embed.FS

//go:embed catalog.yaml
var CatalogYAML []byte
