package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sranjan/examforge/internal/analysis"
	"github.com/sranjan/examforge/internal/config"
	"github.com/sranjan/examforge/internal/llm"
	"github.com/sranjan/examforge/internal/logger"
	"github.com/sranjan/examforge/internal/mcq"
	"github.com/sranjan/examforge/internal/server"
	"github.com/sranjan/examforge/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if err := cfg.LLM.Validate(); err != nil {
			return err
		}

		log := logger.New(cfg.Logger)
		defer log.Sync()

		dbPath, err := resolveDBPath(cmd, cfg.DBPath)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		var eventLog store.EventLog = store.NopEventLog{}
		if dbPath != "" {
			st, err := store.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open request log: %w", err)
			}
			defer st.Close()
			eventLog = st.EventLog()
		} else {
			log.Info("request log disabled")
		}

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, cfg.LLM, eventLog, log)
		if err != nil {
			return err
		}

		analyzer := analysis.NewService(provider, analysis.DefaultConfig())
		generator := mcq.NewGenerator(provider, mcq.DefaultConfig(), log)
		sessions := server.NewRegistry(analyzer, generator, cfg.LLM.Timeout, log)

		srv := &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      server.NewServer(sessions, eventLog, log, cfg.Server),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Info("listening",
				zap.String("addr", cfg.Server.Addr),
				zap.String("provider", cfg.LLM.Provider),
				zap.String("model", provider.ModelID()),
			)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-stop:
		}

		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}
