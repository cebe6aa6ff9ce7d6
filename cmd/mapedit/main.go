// Command mapedit is the headless front end to the map editor core: it
// renders, inspects, repacks and uploads .cbmap archives.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cbmap/mapcore"
	"github.com/cbmap/mapcore/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd()
	root.SetContext(ctx)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configPath string
	verbose    bool

	cfg config.Config
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "mapedit",
		Short:         "SDF map editor core tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				mapcore.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
			cfg, err := config.Load(flags.configPath)
			if err != nil {
				return err
			}
			flags.cfg = cfg
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "mapedit.yaml", "config file path")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newRenderCmd(flags))
	cmd.AddCommand(newInfoCmd())
	cmd.AddCommand(newPackCmd())
	cmd.AddCommand(newUploadCmd(flags))
	cmd.AddCommand(newDemoCmd())
	return cmd
}
