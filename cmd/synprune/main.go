// synprune removes synonyms from CLDF wordlists: it keeps exactly one form
// per (language, meaning) pair, at random or steered by cognate classes.
package main

import (
	"os"

	"github.com/cormacl/synprune/cmd/synprune/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
