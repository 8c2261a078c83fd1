package main

import (
	"os"

	"github.com/alogtools/alog/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
