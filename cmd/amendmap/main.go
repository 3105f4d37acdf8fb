// Command amendmap reconciles legislative budget-amendment records against
// the member roster and district boundaries, producing the rollup artifacts
// the public dashboard serves.
package main

import (
	"github.com/openlegis/amendmap/cmd/amendmap/cmd"
)

// Build information set via ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
