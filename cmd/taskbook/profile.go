package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thywilljoshua/taskbook/internal/config"
	"github.com/thywilljoshua/taskbook/internal/convert"
)

func profileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage book profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init <profile.yaml>",
		Short: "Write the built-in profile as a starting point for a new book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.WriteProfile(args[0], convert.DefaultProfile()); err != nil {
				return err
			}
			a.logger.Info("profile written", zap.String("path", args[0]))
			return nil
		},
	})
	return cmd
}
