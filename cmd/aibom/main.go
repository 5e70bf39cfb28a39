// Command aibom extracts AI provenance from a metadata store and emits
// cross-referencing BOM documents.
package main

import (
	"os"

	"github.com/idlab-discover/AIBOM/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
