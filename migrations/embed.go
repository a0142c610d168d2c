// Package migrations embeds the golang-migrate SQL files so the binary does
// not depend on the working directory.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
