package main

import (
	"context"
	"os"

	"github.com/secmon-lab/analytics-agent/pkg/cli"
)

func main() {
	if err := cli.Run(context.Background(), os.Args); err != nil {
		os.Exit(1)
	}
}
