package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/dkm/jobcards/internal/cli"
)

func main() {
	if err := cli.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}
