package main

import (
	"os"

	"github.com/Fepozopo/bicubic/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
