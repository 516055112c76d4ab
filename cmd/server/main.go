package main // Entry point package

import (
	"context"
	"os"

	"github.com/iliyamo/restaurante/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
