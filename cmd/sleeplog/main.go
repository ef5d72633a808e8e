// Command sleeplog is a sleep journal backed by SQLite.
package main

import (
	"os"

	"github.com/roach88/sleeplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewRootCommand()))
}
