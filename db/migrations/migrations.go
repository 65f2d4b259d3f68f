// Package migrations embeds the SQL migrations for both relational storage
// layouts so the binary can migrate without a checkout on disk.
package migrations

import "embed"

//go:embed postgres/*.sql relational/*.sql
var FS embed.FS
