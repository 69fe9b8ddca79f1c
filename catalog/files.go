package catalog

import "embed"

//go:embed data/sql/migrations
var migrations embed.FS

// GetMigrationsFS returns the catalog schema migrations
func GetMigrationsFS() embed.FS {
	return migrations
}
