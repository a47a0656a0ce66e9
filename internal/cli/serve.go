package cli

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

	"github.com/danwerth/opshub/internal/agent"
	"github.com/danwerth/opshub/internal/channel"
	"github.com/danwerth/opshub/internal/events"
	"github.com/danwerth/opshub/internal/llm"
	"github.com/danwerth/opshub/internal/notify"
	"github.com/danwerth/opshub/internal/server"
	"github.com/danwerth/opshub/internal/tools"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Long: `Starts the dashboard API, the channel webhooks and the websocket event
feed, and keeps the AI assistant answering inbound messages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		model, err := llm.NewModel(ctx, cfg)
		if err != nil {
			return fmt.Errorf("init model: %w", err)
		}

		hub := events.NewHub(logger)
		done := make(chan struct{})
		defer close(done)
		go hub.Run(done)

		var amqpPub *events.AMQPPublisher
		if cfg.AMQPURL != "" {
			amqpPub, err = events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger)
			if err != nil {
				return fmt.Errorf("connect to broker: %w", err)
			}
			defer amqpPub.Close()
			logger.Info("broker connected", "exchange", cfg.AMQPExchange)
		}
		bus := events.NewBus(hub, amqpPub, logger)

		notifier := notify.NewService(dbClient, bus, logger)

		executor := tools.NewExecutor(tools.Dependencies{
			Store:    dbClient,
			Notifier: notifier,
			Logger:   logger,
		})

		orchestrator := agent.NewOrchestrator(dbClient, model, executor, notifier, agent.Options{
			HistoryWindow: cfg.HistoryWindow,
			ToolLoopLimit: cfg.ToolLoopLimit,
			TurnTimeout:   time.Duration(cfg.TurnTimeoutS) * time.Second,
		}, logger)

		sender := channel.NewSender(cfg, logger)

		srv := server.New(dbClient, orchestrator, sender, notifier, bus, hub, cfg, logger)

		httpServer := &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      srv.Handler(),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 120 * time.Second, // long for agent turns
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("server listening",
				"addr", cfg.ListenAddr,
				"provider", string(cfg.LLMProvider),
				"model", cfg.LLMModel)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server error: %w", err)
		case <-quit:
		}

		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		logger.Info("server stopped")
		return nil
	},
}
