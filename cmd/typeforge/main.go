// Command typeforge renders, checks and emits class descriptor files and
// shows the types their overrides produce.
//
//	typeforge render 'models/**/*.yaml' -o gen
//	typeforge check 'models/**/*.yaml' --backend packages
//	typeforge emit models/order.yaml --dump
//	typeforge overrides models/overrides.yaml
package main

import (
	"os"

	"github.com/rs/zerolog"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("Command failed")
	}
}
