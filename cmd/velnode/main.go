package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rmax-ai/velnode/pkg/api"
	"github.com/rmax-ai/velnode/pkg/config"
	"github.com/rmax-ai/velnode/pkg/editor"
	"github.com/rmax-ai/velnode/pkg/store"
	"github.com/rmax-ai/velnode/pkg/ui"
)

var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "velnode: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("velnode", args)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs always go to a file.
	if cfg.LogPath == "-" {
		cfg.LogPath = "velnode.log"
	}
	logger, logCloser, err := cfg.OpenLogger()
	if err != nil {
		return err
	}
	defer logCloser.Close()
	slog.SetDefault(logger)
	logger.Info("system_started", "component", "velnode", "version", Version, "commit", Commit, "build_time", BuildTime)

	journal, journalCloser, err := cfg.OpenJournal(context.Background())
	if err != nil {
		logger.Error("failed_to_open_journal", "backend", cfg.JournalBackend, "error", err)
		return err
	}
	defer func() {
		if err := journalCloser.Close(); err != nil {
			logger.Error("failed_to_close_journal", "error", err)
		}
	}()
	logger.Info("journal_opened", "backend", cfg.JournalBackend)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if archiver := cfg.NewArchiver(journal, logger); archiver != nil {
		done := make(chan struct{})
		go func() {
			archiver.Run(ctx)
			close(done)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	opts := []editor.Option{editor.WithLogger(logger)}
	if journal != nil {
		opts = append(opts, editor.WithJournal(journal))
	}
	doc := editor.New(opts...)
	session := editor.NewSession(doc)
	logger.Info("document_created", "document_id", doc.ID())

	if cfg.InspectAddr != "" {
		srv := api.NewServer(session, cfg.InspectAddr, logger)
		if st, ok := journal.(*store.Store); ok {
			srv.SetReportStore(st)
		}
		go func() {
			if err := srv.Start(); err != nil {
				logger.Error("inspect_server_failed", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				logger.Error("inspect_server_stop_failed", "error", err)
			}
		}()
	}

	p := tea.NewProgram(ui.New(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal ui: %w", err)
	}
	logger.Info("shutdown_complete")
	return nil
}
