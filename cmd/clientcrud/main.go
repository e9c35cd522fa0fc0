package main

import (
	"os"

	"github.com/martijn/clientcrud/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
