package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/taskbook/internal/ai"
	"github.com/thywilljoshua/taskbook/internal/sheet"
)

func solveCmd(a *app) *cobra.Command {
	var (
		provider string
		model    string
		delay    time.Duration
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "solve [workbook.xlsx]",
		Short: "Fill the AI_solution column with model-written solutions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Output
			if len(args) == 1 {
				path = args[0]
			}
			pc := a.cfg.Provider()
			if cmd.Flags().Changed("provider") {
				pc.Provider = provider
			}
			if model != "" {
				pc.Model = model
			}
			if !cmd.Flags().Changed("delay") {
				delay = a.cfg.AI.Delay
			}

			solver, err := ai.New(cmd.Context(), pc)
			if err != nil {
				return err
			}
			wb, err := sheet.Open(path)
			if err != nil {
				return err
			}
			defer wb.Close()

			rep, err := ai.SolveSheet(cmd.Context(), wb, solver, ai.SolveOptions{
				Delay:  delay,
				Limit:  limit,
				Logger: a.logger,
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				RunID  string `json:"run_id"`
				Solver string `json:"solver"`
				Output string `json:"output"`
				ai.SolveReport
			}{a.runID, solver.Name(), path, rep})
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "AI provider: off|mistral|gemini (default from config)")
	cmd.Flags().StringVar(&model, "model", "", "model name (provider default when empty)")
	cmd.Flags().DurationVar(&delay, "delay", 3*time.Second, "pause between requests")
	cmd.Flags().IntVar(&limit, "limit", 0, "solve at most N tasks (0 = all)")
	return cmd
}
