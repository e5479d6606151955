package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/rmax-ai/velnode/pkg/config"
	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/mcp"
)

var Version = "v0.1.0"

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "velnode-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("velnode-mcp", args)
	if err != nil {
		return err
	}

	// stdout carries the protocol; logs go to the file or stderr.
	logger, logCloser, err := cfg.OpenLogger()
	if err != nil {
		return err
	}
	defer logCloser.Close()
	logger.Info("system_started", "component", "velnode-mcp", "version", Version)

	journal, journalCloser, err := cfg.OpenJournal(context.Background())
	if err != nil {
		return err
	}
	defer journalCloser.Close()

	opts := []editor.Option{editor.WithLogger(logger)}
	if journal != nil {
		opts = append(opts, editor.WithJournal(journal))
	}
	session := editor.NewSession(editor.New(opts...))

	if err := mcp.NewServer(session, Version, logger).Serve(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
