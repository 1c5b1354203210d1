package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/optimizer"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		cvPath  string
		jobURLs []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "score --cv <cv-file> [job-file...]",
		Short: "Score a CV against one or more job postings",
		Long:  "Score a CV against every given job posting file and --job-url. Postings are analyzed concurrently; results keep the order given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && len(jobURLs) == 0 {
				return fmt.Errorf("at least one job file or --job-url is required")
			}
			cv, err := readText(cmd, cvPath)
			if err != nil {
				return err
			}

			jobs := make([]optimizer.JobText, 0, len(args)+len(jobURLs))
			for _, path := range args {
				text, err := readText(cmd, path)
				if err != nil {
					return err
				}
				jobs = append(jobs, optimizer.JobText{Source: path, Text: text})
			}
			fetcher := a.newFetcher(false)
			for _, url := range jobURLs {
				text, err := fetcher.JobPosting(cmd.Context(), url)
				if err != nil {
					return err
				}
				jobs = append(jobs, optimizer.JobText{Source: url, Text: text})
			}

			engine, closeEngine, err := a.newEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer closeEngine()

			scores, err := engine.ScoreJobs(cmd.Context(), cv, jobs)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(scores)
			}

			lines := make([]observability.ScoreLine, len(scores))
			for i, s := range scores {
				lines[i] = observability.ScoreLine{
					Source:       s.Source,
					Title:        s.JobDescription.Title,
					Score:        s.Score,
					KeywordMatch: s.KeywordMatch,
					Missing:      s.MissingKeywords,
				}
			}
			observability.NewPrinter(cmd.OutOrStdout()).PrintScores(lines)
			return nil
		},
	}

	cmd.Flags().StringVar(&cvPath, "cv", "", "Path to the CV text file (\"-\" for stdin)")
	cmd.Flags().StringSliceVar(&jobURLs, "job-url", nil, "URL of a job posting (repeatable)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a summary")
	_ = cmd.MarkFlagRequired("cv")
	return cmd
}
