package main

import (
	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/spf13/cobra"
)

func categoriesCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage categories",
		Example: `  # Add an expense category
  ledger categories add Groceries --type expense --icon 🛒 --color "#33AA55"

  # Find categories by name
  ledger categories search gro`,
	}

	cmd.AddCommand(listCategoriesCmd(opts))
	cmd.AddCommand(addCategoryCmd(opts))
	cmd.AddCommand(updateCategoryCmd(opts))
	cmd.AddCommand(deleteCategoryCmd(opts))
	cmd.AddCommand(searchCategoriesCmd(opts))

	return cmd
}

func (a *app) categoryTable(cats []model.Category) string {
	rows := make([][]string, len(cats))
	for i := range cats {
		c := &cats[i]
		rows[i] = []string{c.DisplayIcon(), c.Name, c.Kind.Label(), c.Color, c.ID}
	}
	return cli.RenderTable([]string{"Icon", "Name", "Type", "Color", "ID"}, rows)
}

func (a *app) printCategories(cats []model.Category) {
	if len(cats) == 0 {
		a.println(cli.SubtitleStyle.Render("No categories found."))
		return
	}
	a.println(a.categoryTable(cats))
}

func listCategoriesCmd(opts *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			var cats []model.Category
			if kind != "" {
				k, err := model.ParseKind(kind)
				if err != nil {
					return err
				}
				cats, err = a.ledger.Categories.ListByKind(cmd.Context(), k)
				if err != nil {
					return err
				}
			} else {
				cats, err = a.ledger.Categories.List(cmd.Context())
				if err != nil {
					return err
				}
			}

			a.printCategories(cats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "only this type")
	return cmd
}

func searchCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Find categories whose name contains query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			cats, err := a.ledger.Categories.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.printCategories(cats)
			return nil
		},
	}
}

func addCategoryCmd(opts *rootOptions) *cobra.Command {
	var kind, icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			k, err := model.ParseKind(kind)
			if err != nil {
				return err
			}
			cat := &model.Category{Name: args[0], Kind: k, Icon: icon, Color: color}
			if err := a.ledger.Categories.Add(cmd.Context(), cat); err != nil {
				return err
			}

			a.printf("%s Created %s category %s %s (%s)\n",
				cli.SuccessStyle.Render(cli.SuccessIcon),
				string(cat.Kind),
				cat.DisplayIcon(),
				cli.BoldStyle.Render(cat.Name),
				cli.SubtleStyle.Render(cat.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", string(model.KindExpense), "income, expense, or debt")
	cmd.Flags().StringVarP(&icon, "icon", "i", "", "emoji shown next to the name")
	cmd.Flags().StringVar(&color, "color", "", "hex color, e.g. #FF5733")

	return cmd
}

func updateCategoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name-or-id>",
		Short: "Change a category",
		Long:  `Only the flags you pass are changed.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			cat, err := a.findCategory(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				cat.Name, _ = flags.GetString("name")
			}
			if flags.Changed("type") {
				s, _ := flags.GetString("type")
				k, err := model.ParseKind(s)
				if err != nil {
					return err
				}
				cat.Kind = k
			}
			if flags.Changed("icon") {
				cat.Icon, _ = flags.GetString("icon")
			}
			if flags.Changed("color") {
				cat.Color, _ = flags.GetString("color")
			}

			if err := a.ledger.Categories.Update(ctx, cat); err != nil {
				return err
			}
			a.printf("%s Updated category %s %s\n",
				cli.SuccessStyle.Render(cli.SuccessIcon), cat.DisplayIcon(), cli.BoldStyle.Render(cat.Name))
			return nil
		},
	}

	cmd.Flags().String("name", "", "new name")
	cmd.Flags().StringP("type", "t", "", "income, expense, or debt")
	cmd.Flags().StringP("icon", "i", "", "emoji shown next to the name")
	cmd.Flags().String("color", "", "hex color, e.g. #FF5733")

	return cmd
}

func deleteCategoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <name-or-id>",
		Short: "Delete a category",
		Long: `Delete a category. Its transactions are kept and shown as "Unknown"
until they are moved to another category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx := cmd.Context()

			cat, err := a.findCategory(ctx, args[0])
			if err != nil {
				return err
			}
			ok, err := confirm(cmd, "Delete category "+cat.Name+"?")
			if err != nil {
				return err
			}
			if !ok {
				a.println(cli.SubtitleStyle.Render("Deletion cancelled."))
				return nil
			}

			if err := a.ledger.Categories.Delete(ctx, cat.ID); err != nil {
				return err
			}
			a.printf("%s Deleted category %s\n", cli.SuccessStyle.Render(cli.SuccessIcon), cli.BoldStyle.Render(cat.Name))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip confirmation")
	return cmd
}
