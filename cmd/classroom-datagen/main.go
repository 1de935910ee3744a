package main

import (
	"os"

	"github.com/monorkin/classroom-datagen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
