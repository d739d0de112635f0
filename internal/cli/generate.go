package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mark3labs/swagger2csharp/internal/emitter/csemitter"
	"github.com/mark3labs/swagger2csharp/internal/settings"
	genspec "github.com/mark3labs/swagger2csharp/internal/spec"
)

// GenerateConfig captures all inputs that influence the generate command after
// merging defaults, the config file, the environment and CLI overrides.
type GenerateConfig struct {
	Settings        settings.Settings
	OutDir          string
	ConfigPath      string
	DryRun          bool
	ContinueOnError bool
	Strict          bool
	Verbose         bool

	// Stdout receives the dry-run plan; Stderr receives log records.
	Stdout io.Writer
	Stderr io.Writer
}

var (
	generateRunner = runGenerate
	lookupEnv      = os.LookupEnv
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate C# client code from an OpenAPI/Swagger document",
		Long: "Generate C# client code from an OpenAPI/Swagger document. " +
			"Settings can be provided via flags, SWAGGER2CSHARP_* environment variables, a config file, or defaults.",
		Example: strings.TrimSpace(`  swagger2csharp generate --url https://petstore.swagger.io/v2/swagger.json --out ./client
  swagger2csharp --config swagger2csharp.yaml generate --dry-run`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveGenerateConfig(cmd)
			if err != nil {
				return err
			}
			return generateRunner(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	settings.RegisterFlags(flags)
	flags.String("out", "", "Directory the configured output paths are relative to (default: working directory)")
	flags.Bool("dry-run", false, "Preview planned outputs without writing files")
	flags.Bool("continue-on-error", false, "Skip unsupported operations and schemas instead of stopping at the first one")
	flags.Bool("strict", false, "Fail on document validation findings instead of logging them")

	return cmd
}

func resolveGenerateConfig(cmd *cobra.Command) (*GenerateConfig, error) {
	cfg := GenerateConfig{
		Settings: settings.Defaults(),
		Stdout:   cmd.OutOrStdout(),
		Stderr:   cmd.ErrOrStderr(),
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	configPath = strings.TrimSpace(configPath)
	if configPath != "" {
		cfg.ConfigPath = configPath
		if err := settings.ApplyFile(&cfg.Settings, configPath); err != nil {
			return nil, newUsageError(err.Error())
		}
	}

	settings.ApplyEnv(&cfg.Settings, lookupEnv)

	if err := settings.ApplyFlags(&cfg.Settings, cmd.Flags()); err != nil {
		return nil, err
	}
	if err := applyGenerateFlagOverrides(cmd.Flags(), &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Settings.Validate(); err != nil {
		return nil, newUsageError(fmt.Sprintf("generate: %v (set via flag, environment or config file)", err))
	}

	return &cfg, nil
}

func applyGenerateFlagOverrides(flags *pflag.FlagSet, cfg *GenerateConfig) error {
	out, err := flags.GetString("out")
	if err != nil {
		return err
	}
	cfg.OutDir = strings.TrimSpace(out)

	for name, dst := range map[string]*bool{
		"dry-run":           &cfg.DryRun,
		"continue-on-error": &cfg.ContinueOnError,
		"strict":            &cfg.Strict,
		"verbose":           &cfg.Verbose,
	} {
		value, err := flags.GetBool(name)
		if err != nil {
			return err
		}
		*dst = value
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *GenerateConfig) error {
	log := newLogger(cfg.Stderr, cfg.Verbose)

	// 1) Load the document (file or http/https URL), converting Swagger 2
	doc, err := genspec.Load(ctx, cfg.Settings.URL, genspec.WithLogger(log), genspec.WithStrict(cfg.Strict))
	if err != nil {
		// Map structured spec errors into friendly messages
		var se *genspec.SpecError
		if errors.As(err, &se) {
			msg := fmt.Sprintf("spec: %s", se.Message)
			if se.Location != "" {
				msg = fmt.Sprintf("%s\nLocation: %s", msg, se.Location)
			}
			if se.JSONPointer != "" {
				msg = fmt.Sprintf("%s\nPointer: %s", msg, se.JSONPointer)
			}
			return newUsageError(msg)
		}
		return err
	}

	// 2) Build the ordered document model
	model, err := genspec.BuildDocument(ctx, doc)
	if err != nil {
		return fmt.Errorf("build model: %w", err)
	}

	// 3) Resolve the output root; only used for display and as the sink root
	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "."
	}
	if abs, err := filepath.Abs(outDir); err == nil {
		outDir = abs
	}

	// 4) Emit
	res, err := csemitter.Emit(ctx, model, csemitter.Options{
		Settings:        cfg.Settings,
		OutDir:          outDir,
		DryRun:          cfg.DryRun,
		ContinueOnError: cfg.ContinueOnError,
		Logger:          log,
	})
	if err != nil {
		return wrapEmitError(err, outDir)
	}

	if cfg.DryRun {
		paths := make([]string, 0, len(res.Planned))
		for _, p := range res.Planned {
			paths = append(paths, p.RelPath)
		}
		printPlan(cfg.Stdout, outDir, paths)
	}

	if n := len(res.Failures); n > 0 {
		for _, f := range res.Failures {
			log.Error("artifact skipped", "artifact", f.Artifact, "error", f.Err)
		}
		return fmt.Errorf("generate: %d of %d artifacts failed", n, n+len(res.Planned))
	}
	return nil
}

func printPlan(w io.Writer, outDir string, relPaths []string) {
	fmt.Fprintf(w, "Planned writes to %s (%d files):\n", outDir, len(relPaths))
	for _, p := range relPaths {
		fmt.Fprintf(w, "- %s\n", p)
	}
}

// wrapEmitError gives clearer guidance for input and filesystem failures.
func wrapEmitError(err error, outDir string) error {
	switch {
	case csemitter.IsKind(err, csemitter.OutputFailure):
		return newUsageError(fmt.Sprintf("output error for %s: %v\nHint: choose a different --out or check directory permissions.", outDir, err))
	case csemitter.IsKind(err, csemitter.TemplateResourceMissing):
		return newUsageError(fmt.Sprintf("%v\nHint: check --template and --template-dir.", err))
	case csemitter.IsKind(err, csemitter.UnsupportedInput):
		return fmt.Errorf("%w\nHint: use --continue-on-error to skip unsupported parts of the document", err)
	}
	return err
}
