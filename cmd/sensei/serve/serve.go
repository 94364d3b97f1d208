// Package servecmder provides the serve command that runs the sensei API server.
package servecmder

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/quillardco/sensei/api"
	"github.com/quillardco/sensei/pkg/assist"
	"github.com/quillardco/sensei/pkg/config"
	"github.com/quillardco/sensei/pkg/eventstream"
	eventkafka "github.com/quillardco/sensei/pkg/eventstream/kafka"
	"github.com/quillardco/sensei/pkg/eventstream/nop"
	"github.com/quillardco/sensei/pkg/llm"
	"github.com/quillardco/sensei/pkg/llm/ollama"
	"github.com/quillardco/sensei/pkg/llm/openai"
	"github.com/quillardco/sensei/pkg/logger"
	"github.com/quillardco/sensei/pkg/storage"
	"github.com/quillardco/sensei/pkg/storage/inmemory"
	"github.com/quillardco/sensei/pkg/storage/postgres"
	"github.com/quillardco/sensei/pkg/storage/sqlite"
)

type serveCommander struct {
	listen        string
	sqlitePath    string
	postgresDSN   string
	llmProvider   string
	llmTarget     string
	llmModel      string
	historyWindow uint
	eventsBrokers string
	eventsTopic   string
	debug         bool

	viper  *viper.Viper
	logger *zap.Logger
}

const serveLongDesc string = `Run the sensei API server.

The server accepts assist requests over HTTP, reads recent conversation
history from the configured turn store, invokes the configured LLM backend,
and persists each completed turn.

Examples:
  sensei serve
  sensei serve --sqlite ./sensei.db --llm-provider openai --llm-target https://api.openai.com
  sensei serve --postgres postgres://localhost:5432/sensei --events-brokers localhost:9092`

const serveShortDesc string = "Run the sensei API server"

var serveFlags = []string{
	config.FlagAPIListen,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagLLMProvider,
	config.FlagLLMTarget,
	config.FlagLLMModel,
	config.FlagHistoryWindow,
	config.FlagEventsBrokers,
	config.FlagEventsTopic,
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.viper = v
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			cmder.resolve()
			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagAPIListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMProvider, &cmder.llmProvider)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMTarget, &cmder.llmTarget)
	config.AddStringFlag(cmd, config.Flags, config.FlagLLMModel, &cmder.llmModel)
	config.AddUintFlag(cmd, config.Flags, config.FlagHistoryWindow, &cmder.historyWindow)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsBrokers, &cmder.eventsBrokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagEventsTopic, &cmder.eventsTopic)

	return cmd
}

// resolve pulls final values out of viper so env vars and config.toml feed
// through the same precedence chain as flags.
func (c *serveCommander) resolve() {
	c.listen = c.viper.GetString("api.listen")
	c.sqlitePath = c.viper.GetString("storage.sqlite_path")
	c.postgresDSN = c.viper.GetString("storage.postgres_dsn")
	c.llmProvider = c.viper.GetString("llm.provider")
	c.llmTarget = c.viper.GetString("llm.target")
	c.llmModel = c.viper.GetString("llm.model")
	c.historyWindow = c.viper.GetUint("assist.history_window")
	c.eventsBrokers = c.viper.GetString("events.brokers")
	c.eventsTopic = c.viper.GetString("events.topic")
}

func (c *serveCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer func() { _ = c.logger.Sync() }()

	driver, err := c.newStorageDriver()
	if err != nil {
		return err
	}
	defer driver.Close()

	completer, err := c.newCompleter()
	if err != nil {
		return err
	}

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	service := assist.NewService(driver, completer, c.logger,
		assist.WithWindow(int(c.historyWindow)),
		assist.WithPublisher(publisher),
	)

	server := api.NewServer(api.Config{ListenAddr: c.listen}, service, driver, c.logger)

	c.logger.Info("starting sensei",
		zap.String("listen", c.listen),
		zap.String("llm_provider", c.llmProvider),
		zap.String("llm_target", c.llmTarget),
		zap.String("llm_model", c.llmModel),
		zap.Uint("history_window", c.historyWindow),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *serveCommander) newStorageDriver() (storage.Driver, error) {
	if c.postgresDSN != "" {
		driver, err := postgres.NewPostgresDriver(c.postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return driver, nil
	}

	if c.sqlitePath != "" {
		driver, err := sqlite.NewSQLiteDriver(c.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		c.logger.Info("using SQLite storage", zap.String("path", c.sqlitePath))
		return driver, nil
	}

	c.logger.Info("using in-memory storage")
	return inmemory.NewDriver(), nil
}

func (c *serveCommander) newCompleter() (llm.Completer, error) {
	// The API key only ever comes from config or SENSEI_LLM_API_KEY, never a flag.
	apiKey := c.viper.GetString("llm.api_key")

	switch c.llmProvider {
	case llm.ProviderOpenAI:
		return openai.NewClient(c.llmTarget, c.llmModel, apiKey), nil
	case llm.ProviderOllama:
		return ollama.NewClient(c.llmTarget, c.llmModel), nil
	default:
		return nil, llm.UnsupportedProviderError{Provider: c.llmProvider}
	}
}

func (c *serveCommander) newPublisher() (eventstream.Publisher, error) {
	if !c.viper.GetBool("events.enabled") || c.eventsBrokers == "" {
		return nop.NewPublisher(), nil
	}

	publisher, err := eventkafka.NewPublisher(eventkafka.Config{
		Brokers: strings.Split(c.eventsBrokers, ","),
		Topic:   c.eventsTopic,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	c.logger.Info("publishing turn events",
		zap.String("brokers", c.eventsBrokers),
		zap.String("topic", c.eventsTopic),
	)
	return publisher, nil
}
