package main

import (
	"encoding/json"
	"fmt"

	"github.com/HerbHall/postreview/internal/config"
	"github.com/HerbHall/postreview/internal/review"
	"github.com/spf13/cobra"
)

func reviewCmd(configPath *string) *cobra.Command {
	var req review.Request

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review one post and print the result as JSON",
		Example: `  postreview review --platform twitter --text "Big news: our beta opens today!"
  GEMINI_API_KEY=... postreview review --text "$(cat draft.txt)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			logger, err := config.NewLogger(cfg.Logging)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			pipeline, _, err := newPipeline(cfg, logger)
			if err != nil {
				return err
			}
			result, err := pipeline.Review(cmd.Context(), req)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVar(&req.Text, "text", "", "post text to review")
	cmd.Flags().StringVar(&req.Platform, "platform", "", "target platform (linkedin, instagram, twitter, facebook)")
	return cmd
}
