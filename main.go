package main

import (
	"flag"
	"fmt"
	"os"

	"hrvd/internal/di"
	"hrvd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "duplicate logs to stderr")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "hrvd: %s\n", err)
		os.Exit(1)
	}
}
