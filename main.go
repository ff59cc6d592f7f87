package main

import (
	"os"

	"github.com/blockscope-dev/blockscope/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
