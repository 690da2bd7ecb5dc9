package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	ConfigFile string
	Verbose    bool
	Quiet      bool
	Format     string
	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&globalFlags.ConfigFile,
		"config",
		"",
		"config file (default is $HOME/.config/mediaflow/config.yaml, .toml also accepted)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Verbose,
		"verbose",
		"v",
		false,
		"verbose output (always show progress, log to stderr at debug level when no log file is set)",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress non-error output",
	)
	cmd.PersistentFlags().StringVarP(
		&globalFlags.Format,
		"format",
		"f",
		"",
		"output format: human, json (default from config)",
	)

	cmd.PersistentFlags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.PersistentFlags().StringVar(&globalFlags.LogFormat, "log-format", "", "log format: text, json")
	cmd.PersistentFlags().StringVar(&globalFlags.LogLevel, "log-level", "", "log level: debug, info, warn, error")
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}

// SortFlags holds the flags shared by sort, plan and watch
type SortFlags struct {
	Source       string
	Mode         string
	Output       string
	Duplicates   string
	Recursive    bool
	Lowercase    bool
	DryRun       bool
	PlanOnly     bool
	Yes          bool
	Report       string
	ReportFormat string
}

var sortFlags SortFlags

func addSortFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sortFlags.Source, "source", "s", "", "source directory (default: first argument)")
	cmd.Flags().StringVarP(&sortFlags.Mode, "mode", "m", "", "sort mode: orientation, type")
	cmd.Flags().StringVarP(&sortFlags.Output, "output", "o", "", "output folder created under the source (empty: the source itself)")
	cmd.Flags().StringVarP(&sortFlags.Duplicates, "duplicates", "d", "", "duplicate policy: auto-rename, skip, overwrite")
	cmd.Flags().BoolVarP(&sortFlags.Recursive, "recursive", "r", false, "include subdirectories")
	cmd.Flags().BoolVar(&sortFlags.Lowercase, "lowercase", false, "lower-case destination file names")
	cmd.Flags().BoolVar(&sortFlags.DryRun, "dry-run", false, "compute outcomes without moving files")
	cmd.Flags().StringVar(&sortFlags.Report, "report", "", "write the plan or results to file")
	cmd.Flags().StringVar(&sortFlags.ReportFormat, "report-format", "human", "report format: human, json")
}

// CleanFlags holds clean command flags
type CleanFlags struct {
	Dir          string
	Recursive    bool
	Threshold    float64
	Extensions   string
	Action       string
	Yes          bool
	Report       string
	ReportFormat string
}

var cleanFlags CleanFlags
