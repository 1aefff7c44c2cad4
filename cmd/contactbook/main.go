package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/sicko7947/contactbook"
	"github.com/sicko7947/contactbook/api"
	"github.com/sicko7947/contactbook/shell"
	"github.com/sicko7947/contactbook/store"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config   string `help:"Path to the config file." type:"path" placeholder:"FILE"`
	Backend  string `help:"Repository backend: memory or dynamodb." placeholder:"KIND"`
	LogLevel string `help:"Log level (trace, debug, info, warn, error)." placeholder:"LEVEL"`
}

// CLI is the top-level command structure for contactbook.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	Shell   ShellCmd         `cmd:"" default:"1" help:"Start the interactive contacts REPL."`
	Serve   ServeCmd         `cmd:"" help:"Serve the contacts HTTP API."`
}

// ShellCmd runs the REPL on stdin.
type ShellCmd struct{}

// ServeCmd runs the HTTP API.
type ServeCmd struct {
	Addr string `help:"Listen address, overriding server.addr." placeholder:"HOST:PORT"`
}

// loadConfig loads the config file, then applies env and flag overrides.
func (g *Globals) loadConfig() (*contactbook.Config, error) {
	cfg, err := contactbook.LoadConfig(contactbook.FindConfigPath(g.Config))
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if g.Backend != "" {
		cfg.Backend = contactbook.BackendKind(g.Backend)
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRepository builds the configured backend.
func newRepository(ctx context.Context, cfg *contactbook.Config, logger zerolog.Logger) (contactbook.Repository, error) {
	switch cfg.Backend {
	case contactbook.BackendDynamoDB:
		client, err := store.NewDynamoDBClient(ctx, cfg.DynamoDB)
		if err != nil {
			return nil, err
		}
		if cfg.DynamoDB.CreateTable {
			if err := store.CreateContactsTable(ctx, client, cfg.DynamoDB.Table); err != nil {
				return nil, err
			}
			logger.Info().Str("table", cfg.DynamoDB.Table).Msg("Contacts table ready")
		}
		return store.NewDynamoDBStore(client, cfg.DynamoDB.Table, store.WithLogger(logger)), nil
	default:
		return store.NewMemoryStore(store.WithLogger(logger)), nil
	}
}

// setup loads config and builds the logger and repository.
func (g *Globals) setup(ctx context.Context) (*contactbook.Config, zerolog.Logger, contactbook.Repository, error) {
	cfg, err := g.loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	logger, err := contactbook.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
	}

	repo, err := newRepository(ctx, cfg, logger)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}

	logger.Debug().Str("backend", string(cfg.Backend)).Msg("Repository initialized")
	return cfg, logger, repo, nil
}

// Run executes the shell command.
func (c *ShellCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, repo, err := g.setup(ctx)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}

	sh := shell.New(repo,
		shell.WithLogger(logger),
		shell.WithDefaultPageSize(cfg.List.DefaultPageSize),
	)
	return sh.Run(ctx, os.Stdin)
}

// Run executes the serve command.
func (c *ServeCmd) Run(g *Globals) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, repo, err := g.setup(ctx)
	if err != nil {
		return fmt.Errorf("serve: %w", err)
	}

	addr := cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	server := api.NewServer(repo,
		api.WithLogger(logger),
		api.WithDefaultPageSize(cfg.List.DefaultPageSize),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(addr)
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down server...")

	if err := server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	logger.Info().Msg("Server stopped")
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("contactbook"),
		kong.Description("A small contacts book with a REPL and an HTTP API."),
		kong.Vars{"version": version + " " + commit + " " + date},
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
