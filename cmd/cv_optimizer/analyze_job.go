package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
)

func newAnalyzeJobCmd(a *app) *cobra.Command {
	var (
		url        string
		useBrowser bool
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze-job [job-file]",
		Short: "Extract title, company, requirements and keywords from a job posting",
		Long:  "Analyze a job posting read from a file (\"-\" for stdin) or fetched from --url and print its structured description.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			text, err := a.jobText(cmd, path, url, useBrowser)
			if err != nil {
				return err
			}

			engine, closeEngine, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			jd := engine.AnalyzeJob(text)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(jd)
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintJobDescription(&jd)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "URL of the job posting")
	cmd.Flags().BoolVar(&useBrowser, "browser", false, "Render the posting in a headless browser when plain HTTP yields too little text")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a summary")
	return cmd
}
