package main

import (
	"os"

	"github.com/abdulbitspilani/mlopsgate/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
