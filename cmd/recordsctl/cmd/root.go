// Package cmd implements the recordsctl CLI commands.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Overland-East-Bay/transit-records/internal/adapters/backends"
	"github.com/Overland-East-Bay/transit-records/internal/app/records"
	"github.com/Overland-East-Bay/transit-records/internal/platform/config"
	"github.com/Overland-East-Bay/transit-records/internal/platform/logging"
)

// Version is set at build time.
var Version = "0.1.0"

// Runtime is what the commands operate on.
type Runtime struct {
	Records  *records.Service
	SeedFile string
	Close    func()
}

// Opener builds the Runtime before a command runs.
type Opener func(ctx context.Context) (*Runtime, error)

// Execute runs the CLI against the stores configured in the environment.
func Execute() error {
	return NewRootCmd(OpenFromEnv).Execute()
}

// OpenFromEnv opens the configured stores the same way the API server does.
func OpenFromEnv(ctx context.Context) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	primary, closePrimary, err := backends.OpenPrimary(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open primary store: %w", err)
	}
	secondary, closeSecondary, err := backends.OpenSecondary(ctx, cfg)
	if err != nil {
		closePrimary()
		return nil, fmt.Errorf("open secondary store: %w", err)
	}

	svc := records.NewService(primary, secondary, logger)
	svc.BackgroundTimeout = cfg.BackgroundTimeout
	return &Runtime{
		Records:  svc,
		SeedFile: cfg.SeedFile,
		Close: func() {
			closeSecondary()
			closePrimary()
		},
	}, nil
}

type cli struct {
	open         Opener
	rt           *Runtime
	outputFormat string
}

func NewRootCmd(open Opener) *cobra.Command {
	c := &cli{open: open}

	root := &cobra.Command{
		Use:   "recordsctl",
		Short: "Admin CLI for transit record storage",
		Long: `recordsctl inspects and maintains the primary and secondary record stores.

Backends are selected with the same environment variables as the API server
(PRIMARY_BACKEND, SECONDARY_BACKEND, ...).`,
		Version:      Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&c.outputFormat, "output", "o", "json", "Output format: json or yaml")

	root.AddCommand(
		c.newSeedCmd(),
		c.newMigrateCmd(),
		c.newClearCmd(),
		c.newDumpCmd(),
	)
	return root
}

// withRuntime opens the stores for one command and closes them once background tasks settle.
func (c *cli) withRuntime(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := c.open(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			rt.Records.Wait()
			if rt.Close != nil {
				rt.Close()
			}
		}()
		c.rt = rt
		return fn(cmd, args)
	}
}

func (c *cli) formatOutput(w io.Writer, data any) error {
	switch c.outputFormat {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		out, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (want json or yaml)", c.outputFormat)
	}
}
