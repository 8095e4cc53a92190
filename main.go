package main

import (
	"fmt"
	"os"
	"strings"

	"trading-diary/internal/cli"
	"trading-diary/internal/config"
	"trading-diary/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		logger.Debug().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// configDirFromArgs extracts --config before cobra parses flags, since the
// config must be loaded to build the command tree.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}
