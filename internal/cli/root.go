// Package cli holds the galleryctl commands. They drive the same gallery
// controller as the HTTP server, against the storage configured in the
// environment.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/radif/gallery/internal/config"
	"github.com/radif/gallery/internal/gallery"
	"github.com/radif/gallery/internal/logger"
	"github.com/radif/gallery/internal/storage"
)

// Version is reported by the version command. It is set at build time.
var Version = "dev"

// OpenFunc builds the storage driver the commands operate on.
type OpenFunc func(ctx context.Context) (storage.Storage, error)

// env is shared by all subcommands of one root command.
type env struct {
	open    OpenFunc
	log     *slog.Logger
	options []gallery.Option
}

// controller opens the store and loads the current object list.
func (e *env) controller(ctx context.Context) (*gallery.Controller, error) {
	store, err := e.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	ctl := gallery.NewController(store, append([]gallery.Option{gallery.WithLogger(e.log)}, e.options...)...)
	if res := ctl.Refresh(ctx); !res.OK() {
		return nil, fmt.Errorf("list objects: %w", res.Err)
	}
	return ctl, nil
}

// Option configures the root command.
type Option func(*env)

// WithOpener replaces the storage driver selected from the environment.
func WithOpener(open OpenFunc) Option {
	return func(e *env) { e.open = open }
}

// WithControllerOptions passes options through to the gallery controller.
func WithControllerOptions(opts ...gallery.Option) Option {
	return func(e *env) { e.options = append(e.options, opts...) }
}

// RootCmd returns the galleryctl root command.
func RootCmd(opts ...Option) *cobra.Command {
	e := &env{log: logger.NewNope()}
	for _, opt := range opts {
		opt(e)
	}

	root := &cobra.Command{
		Use:   "galleryctl",
		Short: "Media gallery CLI",
		Long: `A command line interface for the media gallery.
It lists, uploads and deletes objects in the configured storage container.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if e.open != nil || cmd.Name() == "version" {
				return nil
			}
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return err
			}
			e.log = logger.New(logger.Options{Level: cfg.SlogLevel(), Output: os.Stderr})
			e.open = func(ctx context.Context) (storage.Storage, error) {
				return storage.Open(ctx, cfg)
			}
			return nil
		},
	}

	root.AddCommand(listCmd(e))
	root.AddCommand(uploadCmd(e))
	root.AddCommand(deleteCmd(e))
	root.AddCommand(urlCmd(e))
	root.AddCommand(versionCmd())

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the galleryctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
