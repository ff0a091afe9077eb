package commands

import (
	"catalogscrape/lib/configutil"
	"catalogscrape/lib/telemetry"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string

	cfg Config
	tel telemetry.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "catalogscrape",
	Short: "catalogscrape scrapes the ExploreCourses catalog into a courses CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		telemetry.InitSlog(verbose)

		loaded, err := configutil.ReadWithDefaults(configPath, DefaultConfig())
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		cfg = loaded

		t, err := telemetry.SetupFromEnv(cmd.Context(), "catalogscrape")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("no telemetry config found, telemetry disabled", "name", telemetry.ConfigName)
			return nil
		}
		if err != nil {
			slog.Warn("failed to setup telemetry", "err", err)
			return nil
		}
		tel = t
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		err := tel.Shutdown(ctx)
		if err != nil {
			slog.Warn("failed to shutdown telemetry", "err", err)
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and http exchange dumps.")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ConfigName, "The config file, merged with its .local override.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}
