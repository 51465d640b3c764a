// Command screenflow inspects screen archetypes and project files from the
// terminal: browse the catalog, validate and migrate exported projects and
// render them to PNG.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
