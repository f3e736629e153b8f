package main

import (
	"os"

	"github.com/jonesrussell/portfolio/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
