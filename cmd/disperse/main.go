package main

import (
	"os"

	"github.com/AlexZinkM/disperse/cmd/disperse/commands"
)

// @title           Disperse API
// @version         1.0
// @description     Batch native-token transfers through the disperse contract.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
