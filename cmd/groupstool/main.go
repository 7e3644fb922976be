package main

import (
	"os"

	"github.com/jtyocum/groupstool/cmd/groupstool/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
