package main

import (
	"github.com/vibecoding/ideaforge/cmd/ideaforge/cmd"
)

func main() {
	cmd.Execute()
}
