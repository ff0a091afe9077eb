package commands

import (
	"catalogscrape/lib/restyutil"
	"catalogscrape/lib/scrapers/explorecourses"
	"catalogscrape/services/scrape"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const ConfigName = "catalogscrape.json5"

type Config struct {
	BaseUrl               string  `json:"base_url"`
	View                  string  `json:"view"`
	Query                 string  `json:"query"`
	Concurrency           int     `json:"concurrency"`
	RequestTimeoutSeconds int     `json:"request_timeout_seconds"`
	RequestsPerSecond     float64 `json:"requests_per_second"`
	OutputDir             string  `json:"output_dir"`
	// empty disables the database sink
	Db        string `json:"db"`
	UserAgent string `json:"user_agent"`
	// raw http exchanges are written here when --verbose is set
	HttpDumpDir string `json:"http_dump_dir"`
}

func DefaultConfig() Config {
	return Config{
		BaseUrl:               explorecourses.DefaultBaseUrl,
		View:                  explorecourses.DefaultView,
		Query:                 explorecourses.DefaultQuery,
		Concurrency:           scrape.DefaultConcurrency,
		RequestTimeoutSeconds: int(explorecourses.DefaultRequestTimeout / time.Second),
		OutputDir:             ".",
		HttpDumpDir:           ".dev/resty",
	}
}

func (c Config) clientOptions() explorecourses.ClientOptions {
	opts := explorecourses.ClientOptions{
		BaseUrl:           c.BaseUrl,
		View:              c.View,
		Query:             c.Query,
		RequestTimeout:    time.Duration(c.RequestTimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		UserAgent:         c.UserAgent,
	}
	if verbose && c.HttpDumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(c.HttpDumpDir)
		if err != nil {
			slog.Warn("http exchange dumps disabled", "dir", c.HttpDumpDir, "err", err)
		} else {
			opts.Output = output
		}
	}
	return opts
}

func newClient() (*explorecourses.Client, error) {
	return explorecourses.NewClient(cfg.clientOptions())
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Prints the effective configuration after defaults and overrides are applied.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := newTable(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Key", "Value"})
		t.AppendRows([]table.Row{
			{"config", configPath},
			{"base_url", cfg.BaseUrl},
			{"view", cfg.View},
			{"query", cfg.Query},
			{"concurrency", cfg.Concurrency},
			{"request_timeout_seconds", cfg.RequestTimeoutSeconds},
			{"requests_per_second", strconv.FormatFloat(cfg.RequestsPerSecond, 'f', -1, 64)},
			{"output_dir", cfg.OutputDir},
			{"db", cfg.Db},
			{"user_agent", cfg.UserAgent},
			{"http_dump_dir", cfg.HttpDumpDir},
			{"telemetry", fmt.Sprint(tel.Enabled())},
		})
		t.Render()
	},
}
