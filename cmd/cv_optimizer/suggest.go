package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/suggestions"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/types"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

// suggestOutput is the --json form of the suggest command
type suggestOutput struct {
	Source   suggestions.Source          `json:"source"`
	Response *types.OptimizationResponse `json:"response"`
}

func newSuggestCmd(a *app) *cobra.Command {
	var (
		cvPath     string
		jobPath    string
		jobURL     string
		useBrowser bool
		level      string
		focus      string
		rewrite    bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "suggest --cv <cv-file> (--job <job-file> | --job-url <url>)",
		Short: "Suggest improvements that tailor a CV to a job posting",
		Long: "Generate suggestions for a CV using the configured AI provider. When the provider is unset, " +
			"unreachable or returns an invalid response, suggestions are computed locally from keyword coverage.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cv, err := readText(cmd, cvPath)
			if err != nil {
				return err
			}
			if result := validation.ValidateCVContent(cv); !result.IsValid {
				return &validation.CVContentError{Errors: result.Errors}
			}
			text, err := a.jobText(cmd, jobPath, jobURL, useBrowser)
			if err != nil {
				return err
			}

			var lvl types.OptimizationLevel
			if level != "" {
				if err := lvl.UnmarshalText([]byte(level)); err != nil {
					return err
				}
			}

			engine, closeEngine, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			opts := optimizer.DefaultOptions()
			opts.Level = lvl
			opts.PreservePersonality = !rewrite
			opts.FocusAreas = splitList(focus)

			jd := engine.AnalyzeJob(text)
			result := engine.Suggest(cmd.Context(), cv, jd, opts)
			resp := result.Response()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(suggestOutput{Source: result.Source(), Response: resp})
			}

			p := observability.NewPrinter(cmd.OutOrStdout())
			p.PrintJobDescription(&jd)
			p.PrintAnalysis(&resp.Analysis)
			p.PrintSuggestions(resp.Suggestions, string(result.Source()))
			return nil
		},
	}

	cmd.Flags().StringVar(&cvPath, "cv", "", "Path to the CV text file (\"-\" for stdin)")
	cmd.Flags().StringVarP(&jobPath, "job", "j", "", "Path to the job posting text file")
	cmd.Flags().StringVar(&jobURL, "job-url", "", "URL of the job posting")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Render --job-url in a headless browser when needed")
	cmd.Flags().StringVarP(&level, "level", "l", "", "Optimization level: conservative, moderate or aggressive (default from config)")
	cmd.Flags().StringVar(&focus, "focus", "", "Comma-separated sections to focus on, e.g. skills,summary")
	cmd.Flags().BoolVar(&rewrite, "rewrite-voice", false, "Allow suggestions to change the candidate's voice")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a summary")
	_ = cmd.MarkFlagRequired("cv")
	return cmd
}
