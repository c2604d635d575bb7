package main

import (
	"context"
	"fmt"
	"os"

	"franchise_dao/internal/cli"
	"franchise_dao/internal/cli/render"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, render.FormatError(err.Error()))
		os.Exit(1)
	}
}
