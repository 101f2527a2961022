package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arctechlabs/iris/agents"
	"github.com/arctechlabs/iris/framework"
	"github.com/arctechlabs/iris/llm"
	"github.com/arctechlabs/iris/persistence"
	"github.com/arctechlabs/iris/server"
)

var (
	flagConfig string

	cfg *agents.Config
)

func main() {
	// .env is optional; real deployments use the environment directly.
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "iris",
		Short:         "IRIS assistant service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := agents.LoadConfig(flagConfig)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "iris.yaml", "Path to config file")
	root.AddCommand(newServeCmd(), newChatCmd(), newConfigCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Model.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is required")
			}
			store, err := persistence.OpenSQLite(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer store.Close()

			logger := log.New(os.Stderr, "iris: ", log.LstdFlags)
			api := &server.API{
				Config:    cfg,
				Model:     newModel(),
				Store:     store,
				Telemetry: newTelemetry(logger),
				Logger:    logger,
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := api.Serve(ctx, cfg.Server.Addr); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
}

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Chat with IRIS from the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Model.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is required")
			}
			workflow, err := agents.BuildIRIS(cfg, agents.Deps{
				Model:  newModel(),
				Search: cfg.Search,
			})
			if err != nil {
				return err
			}

			sessionID := uuid.NewString()
			var conv framework.Conversation
			scanner := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprintln(cmd.OutOrStdout(), "IRIS ready. Empty line exits.")
			for {
				fmt.Fprint(cmd.OutOrStdout(), "> ")
				if !scanner.Scan() {
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					return nil
				}
				conv = append(conv, framework.Message{Role: framework.RoleUser, Content: line})
				conv, err = workflow.InvokeSession(cmd.Context(), sessionID, conv)
				if err != nil {
					return err
				}
				if last, ok := conv.Last(); ok {
					fmt.Fprintln(cmd.OutOrStdout(), last.Content)
				}
			}
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			shown := *cfg
			shown.Model.APIKey = redact(shown.Model.APIKey)
			shown.Salesforce.ClientSecret = redact(shown.Salesforce.ClientSecret)
			shown.Google.ClientSecret = redact(shown.Google.ClientSecret)
			shown.Search.APIKey = redact(shown.Search.APIKey)
			data, err := yaml.Marshal(&shown)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newModel() framework.LanguageModel {
	if cfg.Model.BaseURL != "" {
		return llm.NewOpenAIWithBaseURL(cfg.Model.APIKey, cfg.Model.Name, cfg.Model.BaseURL)
	}
	return llm.NewOpenAI(cfg.Model.APIKey, cfg.Model.Name)
}

func newTelemetry(logger *log.Logger) framework.Telemetry {
	var sinks []framework.Telemetry
	if cfg.Logging.Verbose {
		sinks = append(sinks, framework.LogTelemetry{Logger: logger})
	}
	if cfg.Logging.EventFile != "" {
		file, err := framework.NewJSONFileTelemetry(cfg.Logging.EventFile)
		if err != nil {
			logger.Printf("event log disabled: %v", err)
		} else {
			sinks = append(sinks, file)
		}
	}
	if len(sinks) == 0 {
		return nil
	}
	return framework.MultiplexTelemetry{Sinks: sinks}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
