// Command noted mirrors a directory of markdown notes into a SQLite index.
package main

import (
	"os"

	"github.com/aidanlsb/noted/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
