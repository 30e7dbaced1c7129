package main

import (
	"github.com/refranero/hangedgame/internal/cli"
)

func main() {
	cli.Execute()
}
