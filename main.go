package main

import (
	"os"

	"github.com/ytchat/ytchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
