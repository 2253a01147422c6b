package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/example/pydoc-gen/internal/docstring"
	"github.com/example/pydoc-gen/internal/pipeline"
)

// Flag defaults.
const (
	defaultInput  = "."
	defaultOutput = "docs"
	defaultStyle  = "google"
	defaultTitle  = "API Documentation"
)

func newGenerateCommand() *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate documentation pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Generate(cmd, &config)
		},
	}

	cmd.Flags().StringVarP(&config.InputDir, "input", "i", defaultInput, "Directory containing Python source")
	cmd.Flags().StringVarP(&config.OutputDir, "output", "o", defaultOutput, "Output directory for Markdown pages")
	cmd.Flags().StringVarP(&config.Style, "docstring-style", "s", defaultStyle, "Docstring style: google, numpy or rest")
	cmd.Flags().StringVarP(&config.Format, "format", "f", "markdown", "Output format (markdown)")
	cmd.Flags().BoolVar(&config.Inheritance, "inheritance", true, "Resolve class inheritance across files")
	cmd.Flags().StringSliceVar(&config.Ignore, "ignore", nil, "Paths to skip, relative to the input directory")
	cmd.Flags().StringVarP(&config.Title, "title", "t", defaultTitle, "Title of the generated index page")
	cmd.Flags().IntVarP(&config.Workers, "workers", "w", 0, "Concurrent file parsers (0 = unbounded)")
	cmd.Flags().StringVarP(&config.ConfigPath, "config", "c", "", "Path to .pydocgen.yml config file")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// GenerateConfig holds configuration for a documentation run.
type GenerateConfig struct {
	InputDir    string `validate:"required"`
	OutputDir   string `validate:"required"`
	Style       string `validate:"required,oneof=google numpy rest"`
	Format      string `validate:"required,oneof=markdown"`
	Inheritance bool
	Ignore      []string
	Title       string
	Workers     int `validate:"gte=0"`
	ConfigPath  string
	Verbose     bool
}

// Generate runs a documentation pass based on the provided configuration.
func Generate(cmd *cobra.Command, config *GenerateConfig) error {
	if err := loadConfigFile(config, cmd.Flags().Changed); err != nil {
		return err
	}
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	level := slog.LevelInfo
	if config.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	summary, err := pipeline.Run(cmd.Context(), pipeline.Options{
		InputDir:    config.InputDir,
		OutputDir:   config.OutputDir,
		Style:       docstring.Style(config.Style),
		Inheritance: config.Inheritance,
		Ignore:      config.Ignore,
		Workers:     config.Workers,
		Title:       config.Title,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if summary.Stats.FilesFailed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d files failed:\n", summary.Stats.FilesFailed)
		for kind, count := range summary.Stats.ErrorTypes {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %d\n", kind, count)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Processed %d files (%d ok, %d failed), wrote %d pages in %s\n",
		summary.Stats.FilesProcessed,
		summary.Stats.FilesSucceeded,
		summary.Stats.FilesFailed,
		summary.PagesWritten,
		summary.Duration.Round(time.Millisecond))
	return nil
}

// loadConfigFile merges a .pydocgen.yml file into config. Flags the user set
// explicitly win over the file; changed reports whether a flag was set on the
// command line.
func loadConfigFile(config *GenerateConfig, changed func(name string) bool) error {
	path := config.ConfigPath
	if path == "" {
		candidate := filepath.Join(config.InputDir, ".pydocgen.yml")
		if _, err := os.Stat(candidate); err != nil {
			return nil
		}
		path = candidate
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var cfg struct {
		Input       string   `yaml:"input"`
		Output      string   `yaml:"output"`
		Style       string   `yaml:"docstring_style"`
		Inheritance *bool    `yaml:"inheritance"`
		Ignore      []string `yaml:"ignore"`
		Title       string   `yaml:"title"`
		Workers     int      `yaml:"workers"`
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if !changed("input") && cfg.Input != "" {
		config.InputDir = cfg.Input
	}
	if !changed("output") && cfg.Output != "" {
		config.OutputDir = cfg.Output
	}
	if !changed("docstring-style") && cfg.Style != "" {
		config.Style = cfg.Style
	}
	if !changed("inheritance") && cfg.Inheritance != nil {
		config.Inheritance = *cfg.Inheritance
	}
	if !changed("ignore") && len(cfg.Ignore) > 0 {
		config.Ignore = cfg.Ignore
	}
	if !changed("title") && cfg.Title != "" {
		config.Title = cfg.Title
	}
	if !changed("workers") && cfg.Workers > 0 {
		config.Workers = cfg.Workers
	}

	return nil
}
