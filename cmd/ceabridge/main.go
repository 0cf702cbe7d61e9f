package main

import (
	"os"

	"ceabridge/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
