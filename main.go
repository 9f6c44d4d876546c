package main

import (
	"github.com/multiplecam/build-tools/cmd"
)

func main() {
	cmd.Execute()
}
