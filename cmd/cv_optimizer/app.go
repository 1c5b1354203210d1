package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/config"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/fetch"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/llm"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/suggestions"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
)

// metricsNamespace prefixes every Prometheus metric name
const metricsNamespace = "cv_optimizer"

// app holds state shared by all subcommands
type app struct {
	getenv func(string) string

	// persistent flags
	configPath string
	logLevel   string
	verbose    bool

	cfg     config.Config
	logger  *zap.Logger
	metrics *observability.Collector
}

func newRootCmd(getenv func(string) string) *cobra.Command {
	a := &app{getenv: getenv}

	root := &cobra.Command{
		Use:           "cv_optimizer",
		Short:         "CV optimization engine",
		Long:          "cv_optimizer analyzes job descriptions, scores CVs against them and suggests targeted improvements, locally or through an AI service.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a JSON or YAML config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Human readable development logs")

	root.AddCommand(
		newAnalyzeJobCmd(a),
		newValidateCVCmd(a),
		newScoreCmd(a),
		newSuggestCmd(a),
		newServeCmd(a),
	)
	return root
}

// load resolves configuration (flags, then file, then environment, then defaults) and builds the logger
func (a *app) load(cmd *cobra.Command) error {
	layered := config.Config{}
	if a.configPath != "" {
		fileCfg, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		layered = *fileCfg
	}
	layered = layered.MergeWithDefaults(config.FromEnv(a.getenv))
	layered = layered.MergeWithDefaults(config.Defaults())

	if cmd.Flags().Changed("log-level") {
		layered.LogLevel = a.logLevel
	}
	if a.verbose {
		layered.Verbose = true
	}
	if err := layered.Validate(); err != nil {
		return err
	}
	a.cfg = layered

	logger, err := observability.NewLogger(a.cfg.LogLevel, a.cfg.Verbose)
	if err != nil {
		return err
	}
	a.logger = logger
	a.metrics = observability.NewCollector(metricsNamespace)
	return nil
}

// newRemote builds the suggestion backend named by the configured provider.
// The returned close function releases provider resources and is never nil.
func (a *app) newRemote(ctx context.Context) (suggestions.Remote, func(), error) {
	noop := func() {}
	switch a.cfg.AIProvider {
	case config.ProviderService:
		return suggestions.NewServiceClient(a.cfg.AIServiceURL), noop, nil
	case config.ProviderGemini:
		if a.cfg.APIKey == "" {
			return nil, noop, fmt.Errorf("API key is required for the gemini provider (set GEMINI_API_KEY or api_key in the config file)")
		}
		llmCfg := llm.DefaultConfig()
		if a.cfg.Model != "" {
			llmCfg = llmCfg.WithModel(llm.TierStandard, a.cfg.Model)
		}
		client, err := llm.NewClient(ctx, llmCfg, a.cfg.APIKey)
		if err != nil {
			return nil, noop, err
		}
		return suggestions.NewLLMRemote(client, suggestions.WithRemoteLogger(a.logger)), func() {
			if err := client.Close(); err != nil {
				a.logger.Warn("failed to close LLM client", zap.Error(err))
			}
		}, nil
	default:
		return nil, noop, nil
	}
}

// newEngine wires the suggestion generator, with its remote backend if any, into an engine
func (a *app) newEngine(ctx context.Context) (*optimizer.Engine, func(), error) {
	remote, closeRemote, err := a.newRemote(ctx)
	if err != nil {
		return nil, closeRemote, err
	}

	genOpts := []suggestions.GeneratorOption{
		suggestions.WithTimeout(a.cfg.Timeout(suggestions.DefaultTimeout)),
		suggestions.WithLogger(a.logger),
		suggestions.WithMetrics(a.metrics),
	}
	if remote != nil {
		genOpts = append(genOpts, suggestions.WithRemote(remote))
		a.logger.Debug("remote suggestions enabled", zap.String("provider", a.cfg.AIProvider))
	}

	defaults := optimizer.DefaultOptions()
	defaults.Level = types.OptimizationLevel(a.cfg.OptimizationLevel)

	engine := optimizer.New(
		optimizer.WithGenerator(suggestions.NewGenerator(genOpts...)),
		optimizer.WithLogger(a.logger),
		optimizer.WithMetrics(a.metrics),
		optimizer.WithDefaults(defaults),
	)
	return engine, closeRemote, nil
}

// newFetcher builds a job posting fetcher, with a headless browser when requested
func (a *app) newFetcher(useBrowser bool) *fetch.Fetcher {
	opts := []fetch.Option{fetch.WithLogger(a.logger)}
	if useBrowser || a.cfg.UseBrowser {
		opts = append(opts, fetch.WithRenderer(fetch.NewChromeRenderer()))
	}
	return fetch.New(opts...)
}

// readText reads a file, or stdin when path is "-"
func readText(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// jobText reads a posting from a file or fetches it from a URL
func (a *app) jobText(cmd *cobra.Command, path, url string, useBrowser bool) (string, error) {
	switch {
	case path != "" && url != "":
		return "", fmt.Errorf("use either a job file or --job-url, not both")
	case url != "":
		return a.newFetcher(useBrowser).JobPosting(cmd.Context(), url)
	case path != "":
		return readText(cmd, path)
	default:
		return "", fmt.Errorf("a job description file or URL is required")
	}
}

// splitList parses a comma-separated flag value
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
