package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/mediaflow/internal/platform"
	"github.com/sdejongh/mediaflow/pkg/config"
	"github.com/sdejongh/mediaflow/pkg/models"
)

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// resolveDirectory picks the flag value or the first argument and checks it
func resolveDirectory(flagValue string, args []string, what string) (string, error) {
	dir := flagValue
	if dir == "" && len(args) > 0 {
		dir = args[0]
	}
	if err := platform.ValidatePath(dir); err != nil {
		return "", fmt.Errorf("invalid %s directory: %w", what, err)
	}

	dir = platform.NormalizePath(dir)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("%w: %s", models.ErrInvalidSource, dir)
	}
	return dir, nil
}

// applyGlobalFlags overrides output and logging settings with global flags
func applyGlobalFlags(cfg *config.Config) {
	if globalFlags.Format != "" {
		cfg.Output.Format = globalFlags.Format
	}

	// Disable progress in quiet mode
	if globalFlags.Quiet {
		cfg.Output.Progress = false
		cfg.Output.Quiet = true
	}

	// Enable progress in verbose mode
	if globalFlags.Verbose {
		cfg.Output.Progress = true
	}

	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}
}

// applySortFlags overrides sort settings with flags that were explicitly set
func applySortFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("mode") {
		mode, err := models.ParseSortMode(sortFlags.Mode)
		if err != nil {
			return err
		}
		cfg.Sort.Mode = mode
	}
	if flags.Changed("duplicates") {
		policy, err := models.ParseDuplicatePolicy(sortFlags.Duplicates)
		if err != nil {
			return err
		}
		cfg.Sort.Duplicates = policy
	}
	if flags.Changed("output") {
		cfg.Sort.Output = sortFlags.Output
	}
	if flags.Changed("recursive") {
		cfg.Sort.Recursive = sortFlags.Recursive
	}
	if flags.Changed("lowercase") {
		cfg.Sort.Lowercase = sortFlags.Lowercase
	}
	if flags.Changed("dry-run") {
		cfg.Sort.DryRun = sortFlags.DryRun
	}

	applyGlobalFlags(cfg)
	return cfg.Validate()
}

// applyCleanFlags overrides retention settings with flags that were explicitly set
func applyCleanFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("recursive") {
		cfg.Clean.Recursive = cleanFlags.Recursive
	}
	if flags.Changed("threshold") {
		cfg.Clean.ThresholdSeconds = cleanFlags.Threshold
	}
	if flags.Changed("ext") {
		cfg.Clean.Extensions = cleanFlags.Extensions
	}
	if flags.Changed("action") {
		action, err := models.ParseActionMode(cleanFlags.Action)
		if err != nil {
			return err
		}
		cfg.Clean.Action = action
	}

	applyGlobalFlags(cfg)
	return cfg.Validate()
}

// buildSortConfig creates the per-operation sort configuration
func buildSortConfig(cfg *config.Config, source string) models.SortConfig {
	return models.SortConfig{
		SourceDir:  source,
		OutputName: platform.SanitizeFolderName(cfg.Sort.Output),
		Recursive:  cfg.Sort.Recursive,
		Lowercase:  cfg.Sort.Lowercase,
		DryRun:     cfg.Sort.DryRun,
		Duplicates: cfg.Sort.Duplicates,
		Mode:       cfg.Sort.Mode,
	}
}

// buildCleanerSettings creates the per-operation retention settings
func buildCleanerSettings(cfg *config.Config, dir string) (models.CleanerSettings, error) {
	exts, err := models.ParseExtensions(cfg.Clean.Extensions)
	if err != nil {
		return models.CleanerSettings{}, err
	}

	settings := models.CleanerSettings{
		Directory:        dir,
		Recursive:        cfg.Clean.Recursive,
		ThresholdSeconds: cfg.Clean.ThresholdSeconds,
		Extensions:       exts,
		Action:           cfg.Clean.Action,
	}
	return settings, settings.Validate()
}
