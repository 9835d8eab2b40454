// Package migrations embeds the SQL schema so the binary and the serverless handler can migrate
// without a migrations directory next to them.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

const PostgresDir = "postgres"
