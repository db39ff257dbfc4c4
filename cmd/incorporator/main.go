package main

import (
	"os"

	"incorporator/cmd/incorporator/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
