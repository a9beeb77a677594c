package main

import (
	"os"

	"github.com/ariel-frischer/gitrelease/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
