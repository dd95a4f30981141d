package main

import (
	"os"

	"github.com/MrSnakeDoc/linkvault/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
