package main

import (
	"os"

	"github.com/dshills/code-reviewer/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
