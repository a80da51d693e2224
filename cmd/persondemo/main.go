// persondemo drives the person repository from the command line.
package main

import (
	"os"

	"github.com/persondb/go-services/cmd/persondemo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
