// Package cli implements the spinectl command tree over the tuning service.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/okian/spinematch/internal/adapters/repository"
	service "github.com/okian/spinematch/internal/app"
	"github.com/okian/spinematch/pkg/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Catalog string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the spinectl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "spinectl",
		Short: "Arrow spine calculator and arrow matcher",
		Long: `spinectl computes the required arrow spine for a bow setup, estimates
arrow speed and ranks catalog arrows against the required spine.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Catalog, "catalog", "", "YAML catalog with products, charts and chronograph records")

	cmd.AddCommand(NewSpineCommand(opts))
	cmd.AddCommand(NewSpeedCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))

	return cmd
}

// newService builds a service over the catalog named by --catalog, or over
// an empty store when none is given.
func newService(ctx context.Context, opts *RootOptions, cmd *cobra.Command) (*service.Service, error) {
	log := logger.Nop()
	if opts.Verbose {
		if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
			return nil, err
		}
		_ = logger.SetLevelString("debug")
		log = logger.Named("spinectl")
	}

	store := repository.NewMemoryStore(repository.WithLogger(log))
	if opts.Catalog != "" {
		if err := store.LoadFile(ctx, opts.Catalog); err != nil {
			return nil, err
		}
	}
	return service.New(service.WithLogger(log), service.WithStore(store)), nil
}
