package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// addMonthFlag registers --month on cmd.
func addMonthFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("month", "m", "", "month as YYYY-MM (default: current month)")
}

// monthFlag returns the period selected with --month.
func monthFlag(cmd *cobra.Command) (model.Period, error) {
	s, _ := cmd.Flags().GetString("month")
	if s == "" {
		return model.CurrentPeriod(), nil
	}
	p, err := model.ParsePeriod(s)
	if err != nil {
		return model.Period{}, common.NewUserError(
			fmt.Sprintf("Invalid month %q, expected YYYY-MM", s),
			fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
	}
	return p, nil
}

// parseAmount parses a non-negative amount.
func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, common.NewUserError(
			fmt.Sprintf("Invalid amount %q, expected a non-negative number", s),
			fmt.Errorf("%w: %q", common.ErrInvalidAmount, s))
	}
	return d, nil
}

// findCategory resolves a category by id first, then by name.
func (a *app) findCategory(ctx context.Context, ref string) (*model.Category, error) {
	cat, err := a.store.GetCategoryByID(ctx, ref)
	if err != nil {
		return nil, err
	}
	if cat != nil {
		return cat, nil
	}

	cat, err = a.store.GetCategoryByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, common.NewUserError(
			fmt.Sprintf("No category named %q", ref),
			fmt.Errorf("category %q: %w", ref, common.ErrNotFound))
	}
	return cat, nil
}

// confirm asks before a destructive action unless --yes was given.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return true, nil
	}
	return newPrompter(cmd).Confirm(cmd.Context(), question)
}

func newPrompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}
