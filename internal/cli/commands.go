package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vishnu448/chatbot/internal/api"
	"github.com/Vishnu448/chatbot/internal/config"
	"github.com/Vishnu448/chatbot/internal/connections"
	"github.com/Vishnu448/chatbot/internal/infrastructure/openai"
	"github.com/Vishnu448/chatbot/internal/services"
	"github.com/Vishnu448/chatbot/pkg/logger"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatbot",
		Short: "A single-conversation AI chat assistant",
		Long: `chatbot keeps one conversation with a hosted language model. Serve it to
browsers over HTTP and WebSocket, or chat with it straight from the terminal.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			envFile, _ := cmd.Flags().GetString("env-file")
			if err := config.LoadEnvFiles(envFile); err != nil {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())

	// Global flags
	rootCmd.PersistentFlags().String("env-file", ".env", "Environment file to load if present")

	return rootCmd
}

// newServeCmd creates the serve command
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat page and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			if addr == "" {
				addr = config.GetListenAddr()
			}
			pretty, _ := cmd.Flags().GetBool("pretty-logs")
			logger.Setup(os.Stderr, pretty)
			return runServer(cmd.Context(), addr)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (LISTEN_ADDR if not provided)")
	cmd.Flags().Bool("pretty-logs", false, "Human readable log output")

	return cmd
}

// newChatCmd creates the chat command
func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			width, _ := cmd.Flags().GetInt("width")

			// keep log lines out of the conversation unless asked for
			logFile, _ := cmd.Flags().GetString("log-file")
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				logger.Setup(f, false)
			} else {
				logger.Setup(io.Discard, false)
			}

			completer := openai.NewService()
			if completer == nil {
				return errors.New("OPENAI_KEY is required")
			}

			repl := NewREPL(services.NewChatSession(completer), cmd.InOrStdin(), cmd.OutOrStdout(), width)
			return repl.Run(cmd.Context())
		},
	}

	cmd.Flags().Int("width", 80, "Terminal width used to lay out bubbles")
	cmd.Flags().String("log-file", "", "Write logs to this file")

	return cmd
}

func runServer(ctx context.Context, addr string) error {
	svcs, err := services.InitializeServices()
	if err != nil {
		return err
	}
	defer svcs.Close()

	manager := connections.NewManager(connections.DefaultTimeouts)

	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(svcs, manager),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info(logger.APP, "Server starting on %s", addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info(logger.APP, "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
