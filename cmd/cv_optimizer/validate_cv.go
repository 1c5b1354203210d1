package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uzzielperez/ChamiNexT-sub000/internal/observability"
	"github.com/uzzielperez/ChamiNexT-sub000/internal/validation"
)

func newValidateCVCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate-cv <cv-file>",
		Short: "Check that a CV is long enough to optimize",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args[0])
			if err != nil {
				return err
			}

			result := validation.ValidateCVContent(text)
			observability.NewPrinter(cmd.OutOrStdout()).PrintValidation(result.IsValid, result.Errors)
			if !result.IsValid {
				return &validation.CVContentError{Errors: result.Errors}
			}
			a.logger.Debug("CV content is valid", zap.String("file", args[0]))
			return nil
		},
	}
}
