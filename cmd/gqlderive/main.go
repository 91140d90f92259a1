// Command gqlderive derives a GraphQL schema from tagged Go declarations.
package main

import (
	"os"
)

func main() {
	if err := newCLI(os.Stdout, os.Stderr).execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
