package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/IvanShishkin/csr/internal/config"
	"github.com/IvanShishkin/csr/internal/core"
	"github.com/IvanShishkin/csr/internal/filesystem"
	"github.com/IvanShishkin/csr/internal/report"
	"github.com/IvanShishkin/csr/pkg/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	version = "0.1.0"
	logger  *zap.Logger
	verbose bool
)

func main() {
	rootCmd := searchCmd()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// searchFlags holds the raw flag values of the search command
type searchFlags struct {
	name        string
	content     string
	fileType    string
	size        string
	modified    string
	path        string
	recursive   bool
	noRecursive bool
	syswide     bool
	local       bool
	output      string
	exclude     []string
	parallel    bool
	sortResults bool
	configFile  string
}

// searchCmd creates the root search command
func searchCmd() *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "csr",
		Short: "CSR - Command-line file search",
		Long: `Search for files and content within files using various criteria.

Filters combine with AND: a file is reported only when it passes every
filter given. Content search reads each candidate file as UTF-8 text;
binary and unreadable files never match.`,
		Example: `  csr --type .txt
  csr --path /var/log --recursive --size ">10MB"
  csr --content "TODO" --name "*.go" --recursive --output json
  csr --syswide --name "*.pem" --modified ">7d"`,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate flags before doing anything
			if err := validateFlags(f); err != nil {
				return err
			}

			var err error
			logger, err = newLogger(verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logger.Sync()

			// Load configuration
			cfg, err := config.LoadConfig(f.configFile)
			if err != nil {
				logger.Error("Failed to load config", zap.Error(err))
				return err
			}
			applyFlags(cmd, cfg, f)

			if !config.IsValidOutput(cfg.Output) {
				return fmt.Errorf("--output must be one of: %s (got: %s)",
					strings.Join(config.OutputFormats, ", "), cfg.Output)
			}

			return runSearch(cmd, cfg, f)
		},
	}

	// Flags
	cmd.Flags().StringVar(&f.name, "name", "", "Search for files by name (supports wildcards)")
	cmd.Flags().StringVar(&f.content, "content", "", "Search for files containing text matching a regular expression")
	cmd.Flags().StringVar(&f.fileType, "type", "", "Search for files by type (extension suffix, case-insensitive)")
	cmd.Flags().StringVar(&f.size, "size", "", "Search for files by size (e.g., >10MB, <1GB)")
	cmd.Flags().StringVar(&f.modified, "modified", "", "Search for files by last modified time (e.g., >7d, <2024-01-31)")
	cmd.Flags().StringVar(&f.path, "path", "", "Directory to search within (default: current directory)")
	cmd.Flags().BoolVar(&f.recursive, "recursive", false, "Search recursively")
	cmd.Flags().BoolVar(&f.noRecursive, "no-recursive", false, "Search only the top directory (default)")
	cmd.Flags().BoolVar(&f.syswide, "syswide", false, "Search all mounted roots, skipping protected system paths (implies --recursive)")
	cmd.Flags().BoolVar(&f.local, "local", false, "Search only the given path (default)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output format: table, list, json, yaml (default: table)")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "Extra path fragments to skip in system-wide scans (comma-separated)")
	cmd.Flags().BoolVar(&f.parallel, "parallel", false, "Walk system-wide roots concurrently")
	cmd.Flags().BoolVar(&f.sortResults, "sort", false, "Sort results by path")
	cmd.Flags().StringVar(&f.configFile, "config", "", "Config file (default: $HOME/.csr.yaml)")

	cmd.MarkFlagsMutuallyExclusive("recursive", "no-recursive")
	cmd.MarkFlagsMutuallyExclusive("syswide", "local")
	cmd.MarkFlagsMutuallyExclusive("syswide", "path")

	return cmd
}

// runSearch builds the criteria, runs the search and renders the results
func runSearch(cmd *cobra.Command, cfg *config.Config, f searchFlags) error {
	exclude, err := loadExclusions(cfg)
	if err != nil {
		return err
	}

	criteria, ignored, err := core.NewCriteria(core.Options{
		Name:      f.name,
		Content:   f.content,
		Extension: f.fileType,
		Size:      f.size,
		Modified:  f.modified,
		Path:      cfg.Path,
		Recursive: cfg.Recursive,
		SysWide:   f.syswide,
		Exclude:   exclude,
	}, time.Now())
	if err != nil {
		return err
	}
	for _, expr := range ignored {
		logger.Debug("Ignoring malformed filter expression", zap.String("filter", expr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	progress := report.NewProgress(os.Stderr, cfg.Progress)
	stderr := cmd.ErrOrStderr()

	collector := core.NewCollector()
	sink := core.SinkFuncs{
		Result: collector.EmitResult,
		Advisory: func(a *models.Advisory) {
			progress.Clear()
			report.PrintAdvisory(stderr, a)
		},
	}

	scanner := core.NewScanner(cfg, logger)
	if progress.Enabled() {
		scanner.SetProgressCallback(progress.Update)
	}

	summary, err := scanner.Search(ctx, criteria, sink)
	progress.Clear()
	if err != nil {
		return err
	}

	results := collector.Results()
	if cfg.SortResults {
		results = collector.SortedResults()
	}

	if len(results) == 0 {
		report.PrintNoResults(cmd.OutOrStdout())
		return nil
	}

	generator, err := report.NewGenerator(cfg.Output, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	if err := generator.Generate(results); err != nil {
		return err
	}

	if verbose {
		report.PrintSummary(stderr, summary)
	}
	return nil
}

// applyFlags overrides config values with explicitly set CLI flags
func applyFlags(cmd *cobra.Command, cfg *config.Config, f searchFlags) {
	flags := cmd.Flags()
	if flags.Changed("path") {
		cfg.Path = f.path
	}
	if flags.Changed("recursive") {
		cfg.Recursive = f.recursive
	}
	if flags.Changed("no-recursive") {
		cfg.Recursive = !f.noRecursive
	}
	if f.output != "" {
		cfg.Output = f.output
	}
	if len(f.exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, f.exclude...)
	}
	if f.parallel {
		cfg.ParallelRoots = true
	}
	if f.sortResults {
		cfg.SortResults = true
	}
}

// loadExclusions combines configured fragments with exclusion profiles
func loadExclusions(cfg *config.Config) ([]string, error) {
	profiles, err := filesystem.NewProfileLoader(cfg.ExcludeProfile).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load exclusion profiles: %w", err)
	}
	return append(append([]string{}, cfg.Exclude...), profiles...), nil
}

// validateFlags validates CLI flag values
func validateFlags(f searchFlags) error {
	if f.output != "" && !config.IsValidOutput(f.output) {
		return fmt.Errorf("--output must be one of: %s (got: %s)",
			strings.Join(config.OutputFormats, ", "), f.output)
	}
	if f.name != "" && strings.TrimSpace(f.name) == "" {
		return fmt.Errorf("--name must not be blank")
	}
	return nil
}

// newLogger builds a development logger when verbose, otherwise an
// error-only JSON logger on stderr
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		Encoding:         "json",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}
	return cfg.Build()
}
