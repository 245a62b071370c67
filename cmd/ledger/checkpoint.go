package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/spf13/cobra"
)

func checkpointCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Manage database checkpoints",
		Long: `Create, list, restore, and delete database checkpoints.

Checkpoints save the current state of the SQLite database before risky
changes so it can be restored later. Imports create one automatically.`,
		Example: `  # Create a checkpoint before cleaning up categories
  ledger checkpoint create --tag before-cleanup

  # List all checkpoints
  ledger checkpoint list

  # Restore from a checkpoint
  ledger checkpoint restore before-cleanup`,
	}

	cmd.AddCommand(createCheckpointCmd(opts))
	cmd.AddCommand(listCheckpointsCmd(opts))
	cmd.AddCommand(restoreCheckpointCmd(opts))
	cmd.AddCommand(deleteCheckpointCmd(opts))

	return cmd
}

func createCheckpointCmd(opts *rootOptions) *cobra.Command {
	var tag, description string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new checkpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			info, err := manager.Create(cmd.Context(), tag, description)
			if err != nil {
				return fmt.Errorf("failed to create checkpoint: %w", err)
			}

			a.printf("%s Created checkpoint %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				cli.InfoStyle.Render(info.ID),
				formatFileSize(info.FileSize))
			if info.Description != "" {
				a.printf("  Description: %s\n", info.Description)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&tag, "tag", "t", "", "checkpoint name (auto-generated if not provided)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description of the checkpoint")

	return cmd
}

func listCheckpointsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all checkpoints",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			checkpoints, err := manager.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list checkpoints: %w", err)
			}
			if len(checkpoints) == 0 {
				a.println(cli.SubtitleStyle.Render("No checkpoints found."))
				return nil
			}

			rows := make([][]string, len(checkpoints))
			for i, cp := range checkpoints {
				typeLabel := "manual"
				if cp.IsAuto {
					typeLabel = "auto"
				}
				rows[i] = []string{
					cp.ID,
					formatRelativeTime(cp.CreatedAt, time.Now()),
					formatFileSize(cp.FileSize),
					strconv.Itoa(cp.Transactions),
					strconv.Itoa(cp.Categories),
					strconv.Itoa(cp.Budgets),
					typeLabel,
				}
			}
			a.println(cli.RenderTable(
				[]string{"Name", "Created", "Size", "Transactions", "Categories", "Budgets", "Type"}, rows))
			return nil
		},
	}
}

func restoreCheckpointCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <checkpoint-id>",
		Short: "Restore database from a checkpoint",
		Long:  `Replace the current database with a checkpoint.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			info, err := manager.Info(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			ok, err := confirm(cmd, fmt.Sprintf("Replace the current database with checkpoint %s from %s?",
				info.ID, info.CreatedAt.Format("2006-01-02 15:04:05")))
			if err != nil {
				return err
			}
			if !ok {
				a.println(cli.SubtitleStyle.Render("Restore cancelled."))
				return nil
			}

			if err := manager.Restore(ctx, info.ID); err != nil {
				return fmt.Errorf("failed to restore checkpoint: %w", err)
			}
			a.printf("%s Restored from checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), cli.InfoStyle.Render(info.ID))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	return cmd
}

func deleteCheckpointCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <checkpoint-id>",
		Short: "Delete a checkpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			manager, err := a.checkpoints()
			if err != nil {
				return err
			}
			info, err := manager.Info(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get checkpoint info: %w", err)
			}

			ok, err := confirm(cmd, fmt.Sprintf("Permanently delete checkpoint %s (%s)?", info.ID, formatFileSize(info.FileSize)))
			if err != nil {
				return err
			}
			if !ok {
				a.println(cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := manager.Delete(ctx, info.ID); err != nil {
				return fmt.Errorf("failed to delete checkpoint: %w", err)
			}
			a.printf("%s Deleted checkpoint %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), cli.InfoStyle.Render(info.ID))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	return cmd
}

func formatFileSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

func formatRelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 48*time.Hour:
		return "yesterday"
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%d days ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02 15:04")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
