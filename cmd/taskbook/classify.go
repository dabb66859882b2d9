package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/taskbook/internal/classify"
	"github.com/thywilljoshua/taskbook/internal/sheet"
)

func classifyCmd(a *app) *cobra.Command {
	var (
		artifacts string
		endpoint  string
		batch     int
	)

	cmd := &cobra.Command{
		Use:   "classify [workbook.xlsx]",
		Short: "Predict topic levels for every task with the hierarchical classifier",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Output
			if len(args) == 1 {
				path = args[0]
			}
			if artifacts == "" {
				artifacts = a.cfg.Classify.ArtifactsDir
			}
			if endpoint == "" {
				endpoint = a.cfg.Classify.Endpoint
			}
			if batch <= 0 {
				batch = a.cfg.Classify.BatchSize
			}

			art, err := classify.LoadArtifacts(artifacts)
			if err != nil {
				return err
			}
			c := classify.New(art, classify.NewHTTPPredictor(endpoint, a.cfg.Classify.Timeout))

			wb, err := sheet.Open(path)
			if err != nil {
				return err
			}
			defer wb.Close()

			rep, err := classify.ClassifySheet(cmd.Context(), wb, c, classify.SheetOptions{
				BatchSize: batch,
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				RunID  string `json:"run_id"`
				Output string `json:"output"`
				classify.SheetReport
			}{a.runID, path, rep})
		},
	}
	cmd.Flags().StringVar(&artifacts, "artifacts", "", "artifacts directory (default from config)")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "inference server URL (default from config)")
	cmd.Flags().IntVar(&batch, "batch", 0, "texts per inference request")
	return cmd
}

func downloadCmd(a *app) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Fetch missing classifier artifacts from Google Drive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.Classify.ArtifactsDir
			}
			rep, err := classify.Download(cmd.Context(), dir, a.cfg.ArtifactURLs(), classify.DownloadOptions{
				Logger: a.logger,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				RunID string `json:"run_id"`
				Dir   string `json:"dir"`
				classify.DownloadReport
			}{a.runID, dir, rep})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "artifacts directory (default from config)")
	return cmd
}
