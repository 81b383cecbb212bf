package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/slidesmith/slidesmith-mcp/internal/config"
	engine "github.com/slidesmith/slidesmith-mcp/internal/critique"
	"github.com/slidesmith/slidesmith-mcp/internal/daemon"
	"github.com/slidesmith/slidesmith-mcp/internal/logger"
	"github.com/slidesmith/slidesmith-mcp/internal/mcp"
	bridge "github.com/slidesmith/slidesmith-mcp/internal/render"
	"github.com/slidesmith/slidesmith-mcp/internal/session"
	"github.com/slidesmith/slidesmith-mcp/internal/templating"
	"github.com/slidesmith/slidesmith-mcp/internal/tools"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/content"
	critiquetools "github.com/slidesmith/slidesmith-mcp/internal/tools/critique"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/design"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/presentation"
	rendertools "github.com/slidesmith/slidesmith-mcp/internal/tools/render"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/slides"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/style"
	"github.com/slidesmith/slidesmith-mcp/internal/tools/tables"
	templatetools "github.com/slidesmith/slidesmith-mcp/internal/tools/templates"
	"github.com/slidesmith/slidesmith-mcp/internal/watcher"
	"github.com/slidesmith/slidesmith-mcp/pkg/protocol"
	"github.com/slidesmith/slidesmith-mcp/pkg/version"
)

// maxLineSize caps one stdio request. Template definitions and bulk datasets
// arrive inline, so the limit is generous.
const maxLineSize = 16 * 1024 * 1024

func main() {
	app := &cli.App{
		Name:    "slidesmith",
		Usage:   "MCP server for programmatic PowerPoint authoring",
		Version: version.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
				EnvVars: []string{"SLIDESMITH_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override log level: debug, info, warn, or error",
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			daemonCommand(),
			connectCommand(),
			versionCommand(),
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve MCP over stdio (default)",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			registry, cleanup, err := buildRegistry(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			server := mcp.NewServer(registry)
			writer := protocol.NewFlushWriter(os.Stdout)
			return server.ProcessStream(os.Stdin, writer)
		},
	}
}

func daemonCommand() *cli.Command {
	return &cli.Command{
		Name:  "daemon",
		Usage: "Serve MCP on a unix socket shared by several clients",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			registry, cleanup, err := buildRegistry(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			d := daemon.NewDaemon(cfg.DataDir, cfg.SocketPath, mcp.NewServer(registry))
			return d.Run()
		},
	}
}

func connectCommand() *cli.Command {
	return &cli.Command{
		Name:  "connect",
		Usage: "Proxy stdio to a running daemon",
		Action: func(c *cli.Context) error {
			cfg, err := setup(c)
			if err != nil {
				return err
			}

			ctx := context.Background()
			client, err := daemon.Dial(ctx, cfg.SocketPath)
			if err != nil {
				return fmt.Errorf("%w (start one with 'slidesmith daemon')", err)
			}
			defer client.Close()

			return proxyStdio(ctx, client)
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Printf("slidesmith %s (MCP protocol %s)\n", version.Version, version.ProtocolVersion)
			return nil
		},
	}
}

func setup(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	level := cfg.Log.Level
	if override := c.String("log-level"); override != "" {
		level = override
	}
	logger.Init(logger.Config{
		Level:  logger.ParseLevel(level),
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create data directories: %w", err)
	}
	return cfg, nil
}

// buildRegistry wires every tool family onto one registry. The returned
// cleanup releases the template watcher, the profile store, and any open
// presentations.
func buildRegistry(ctx context.Context, cfg *config.Config) (*tools.Registry, func(), error) {
	log := logger.ForComponent("startup")

	sessions := session.NewRegistry()

	store := templating.NewStore()
	library := templating.NewLibrary(store, cfg.Templates.Dir)
	if loaded := library.LoadAll(); loaded > 0 {
		log.Info("templates loaded from disk", "count", loaded)
	}
	if cfg.Templates.Watch {
		watchCfg := watcher.WatcherConfig{
			Enabled:        true,
			DebounceWindow: cfg.DebounceWindow(),
			MaxBatchSize:   100,
			IgnorePatterns: cfg.Templates.Ignore,
		}
		if err := library.Watch(ctx, watchCfg); err != nil {
			log.Warn("template hot-reload disabled", "error", err)
		}
	}

	profiles := style.NewProfiles()
	profileStore, err := style.NewProfileStore(cfg.Profiles.DBPath)
	if err != nil {
		library.Close()
		return nil, nil, fmt.Errorf("failed to open profile store: %w", err)
	}

	fetcher := content.NewFetcher(cfg.FetchTimeout(), cfg.Fetch.MaxBytes)
	renderer := bridge.New(cfg.Render, cfg.RenderTimeout())
	critic := engine.New(cfg.Critique, renderer)
	designs := design.NewDesigns()
	safeDir := cfg.SafeOutputDir()

	registry := tools.NewRegistry()
	families := [][]tools.Tool{
		presentation.GetTools(sessions, safeDir),
		slides.GetTools(sessions),
		content.GetTools(sessions, fetcher),
		tables.GetTools(sessions),
		design.GetTools(sessions, designs),
		templatetools.GetTools(sessions, store, safeDir),
		style.GetTools(profiles, profileStore),
		rendertools.GetTools(sessions, renderer, safeDir),
		critiquetools.GetTools(sessions, critic),
	}
	for _, family := range families {
		if err := registry.RegisterAll(family); err != nil {
			library.Close()
			profileStore.Close()
			return nil, nil, err
		}
	}

	probes := map[string]func() interface{}{
		"open_presentations": func() interface{} { return sessions.Count() },
		"templates_loaded":   func() interface{} { return len(store.List()) },
		"style_profiles":     func() interface{} { return len(profiles.Names()) },
		"renderer":           func() interface{} { return renderer.CircuitStats() },
	}
	if err := registry.Register(tools.NewHealthTool(version.Version, probes)); err != nil {
		library.Close()
		profileStore.Close()
		return nil, nil, err
	}

	log.Info("tools registered",
		"count", len(registry.Names()),
		"safe_dir", safeDir,
		"socket", cfg.SocketPath)

	cleanup := func() {
		library.Close()
		profileStore.Close()
		sessions.Close()
	}
	return registry, cleanup, nil
}

// proxyStdio relays newline-delimited requests from stdin to the daemon and
// daemon replies back to stdout.
func proxyStdio(ctx context.Context, client *daemon.Client) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	writer := protocol.NewFlushWriter(os.Stdout)
	encoder := json.NewEncoder(writer)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req protocol.JSONRPCRequest
		if err := json.Unmarshal(line, &req); err != nil {
			resp := &protocol.JSONRPCResponse{
				JSONRPC: "2.0",
				Error: &protocol.JSONRPCError{
					Code:    -32700,
					Message: "Parse error",
				},
			}
			if err := encoder.Encode(resp); err != nil {
				return err
			}
			writer.Flush()
			continue
		}

		resp := client.Forward(ctx, &req)
		if resp == nil {
			continue
		}
		if err := encoder.Encode(resp); err != nil {
			return err
		}
		writer.Flush()
	}

	return scanner.Err()
}
