package main

import (
	"os"

	"github.com/Vishnu448/chatbot/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
