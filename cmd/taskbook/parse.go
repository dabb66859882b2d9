package main

import (
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/taskbook/internal/config"
	"github.com/thywilljoshua/taskbook/internal/convert"
)

// bookFlags are shared by the commands that read a source book.
type bookFlags struct {
	out        string
	profile    string
	requireToC bool
}

func (f *bookFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output workbook (default from config: tasks.xlsx)")
	cmd.Flags().StringVar(&f.profile, "profile", "", "book profile YAML (markers, skip phrases, author)")
	cmd.Flags().BoolVar(&f.requireToC, "require-toc", false, "fail when the table of contents is missing")
}

func (f *bookFlags) config(a *app, source string) (convert.Config, error) {
	path := f.profile
	if path == "" {
		path = a.cfg.Profile
	}
	profile, err := config.LoadProfile(path)
	if err != nil {
		return convert.Config{}, err
	}
	out := f.out
	if out == "" {
		out = a.cfg.Output
	}
	return convert.Config{
		Source:     source,
		Output:     out,
		Profile:    profile,
		RequireToC: f.requireToC || a.cfg.RequireToC,
		Logger:     a.logger,
	}, nil
}

func parseCmd(a *app) *cobra.Command {
	var flags bookFlags
	var skipAuthor bool

	cmd := &cobra.Command{
		Use:   "parse <book.docx|book.pdf>",
		Short: "Extract the table of contents, problems and answers into the workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := flags.config(a, args[0])
			if err != nil {
				return err
			}
			conf.SkipAuthor = skipAuthor
			res, err := convert.Run(cmd.Context(), conf)
			if err != nil {
				return err
			}
			res.RunID = a.runID
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&skipAuthor, "no-author", false, "do not write the author sheet")
	return cmd
}

func tocCmd(a *app) *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "toc <book.docx|book.pdf>",
		Short: "Extract only the table of contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := flags.config(a, args[0])
			if err != nil {
				return err
			}
			res, err := convert.ParseToCFile(conf)
			if err != nil {
				return err
			}
			res.RunID = a.runID
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	return cmd
}

func answersCmd(a *app) *cobra.Command {
	var flags bookFlags

	cmd := &cobra.Command{
		Use:   "answers <book.docx|book.pdf>",
		Short: "Re-read the answers section and refresh the answer column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := flags.config(a, args[0])
			if err != nil {
				return err
			}
			res, err := convert.UpdateAnswers(cmd.Context(), conf)
			if err != nil {
				return err
			}
			res.RunID = a.runID
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	flags.register(cmd)
	return cmd
}
