package main

import (
	"io"
	"log"
	"os"

	"github.com/korin/dotwm/internal/cmds"
)

func main() {
	logger := log.New(os.Stdout, "", 0)
	if os.Getenv("DOTWM_LOG") == "" {
		logger.SetOutput(io.Discard)
		log.SetOutput(io.Discard)
	}

	// start the root command
	err := cmds.GetRootCmd(logger).Execute()
	if err != nil {
		// cobra already printed the error
		os.Exit(1)
	}
}
