package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/wallet/internal/cli"
	"github.com/Veraticus/wallet/internal/common"
	"github.com/Veraticus/wallet/internal/model"
)

func (r *root) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Manage income and expense categories",
		Long:    `List, add, update, and delete the categories used to classify transactions.`,
	}

	cmd.AddCommand(r.listCategoriesCmd())
	cmd.AddCommand(r.showCategoryCmd())
	cmd.AddCommand(r.addCategoryCmd())
	cmd.AddCommand(r.updateCategoryCmd())
	cmd.AddCommand(r.deleteCategoryCmd())
	cmd.AddCommand(r.defaultCategoriesCmd())
	return cmd
}

func (r *root) listCategoriesCmd() *cobra.Command {
	var txType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if err := a.categories.Fetch(ctx); err != nil {
					return err
				}
				categories := a.categories.Items()
				if txType != "" {
					categories = a.categories.ForType(model.TransactionType(txType))
				}
				return writeCategories(cmd, a, categories)
			})
		},
	}

	cmd.Flags().StringVarP(&txType, "type", "t", "", "only categories usable for this transaction type (income, expense)")
	return cmd
}

func (r *root) showCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				c, err := a.categories.Get(ctx, id)
				if err != nil {
					return err
				}
				content := fmt.Sprintf("ID:   %s\nName: %s %s\nType: %s\nIcon: %s",
					c.ID, cli.Swatch(c.Color), c.Name, c.Type, c.Icon)
				return printLine(cmd.OutOrStdout(), cli.RenderBox("Category", content))
			})
		},
	}
}

type categoryFlags struct {
	name  string
	kind  string
	icon  string
	color string
}

func (f *categoryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "category name")
	cmd.Flags().StringVarP(&f.kind, "type", "t", "", "income or expense")
	cmd.Flags().StringVar(&f.icon, "icon", "", "icon name")
	cmd.Flags().StringVar(&f.color, "color", "", "hex color, e.g. #ef4444")
}

func (f *categoryFlags) apply(cmd *cobra.Command, c *model.Category) {
	if cmd.Flags().Changed("name") {
		c.Name = f.name
	}
	if cmd.Flags().Changed("type") {
		c.Type = model.CategoryType(f.kind)
	}
	if cmd.Flags().Changed("icon") {
		c.Icon = f.icon
	}
	if cmd.Flags().Changed("color") {
		c.Color = f.color
	}
}

func (r *root) addCategoryCmd() *cobra.Command {
	var flags categoryFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := model.Category{Icon: "tag", Color: "#6b7280"}
			flags.apply(cmd, &c)
			if err := c.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				created, err := a.categories.Add(ctx, c)
				if err != nil {
					return err
				}
				if err := printLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Added %s category %s (%s)", created.Type, created.Name, created.ID))); err != nil {
					return err
				}
				return warnOffline(cmd, a)
			})
		},
	}

	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func (r *root) updateCategoryCmd() *cobra.Command {
	var flags categoryFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				c, err := a.categories.Get(ctx, id)
				if err != nil {
					return err
				}
				flags.apply(cmd, &c)
				if err := c.Validate(); err != nil {
					return err
				}

				updated, err := a.categories.Update(ctx, c)
				if err != nil {
					return err
				}
				if err := printLine(cmd.OutOrStdout(), cli.FormatSuccess("Updated category "+updated.Name)); err != nil {
					return err
				}
				return warnOffline(cmd, a)
			})
		},
	}

	flags.register(cmd)
	return cmd
}

func (r *root) deleteCategoryCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg("category", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ok, err := confirm(cmd, yes, "Delete category "+id.String()+"?"); err != nil || !ok {
				return err
			}
			return r.withApp(ctx, func(a *app) error {
				if err := a.categories.Delete(ctx, id); err != nil {
					return err
				}
				if err := printLine(cmd.OutOrStdout(), cli.FormatSuccess("Deleted category "+id.String())); err != nil {
					return err
				}
				return warnOffline(cmd, a)
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip confirmation")
	return cmd
}

func (r *root) defaultCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Create the starter categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return r.withApp(ctx, func(a *app) error {
				if err := a.categories.CreateDefaults(ctx); err != nil {
					return err
				}
				return writeCategories(cmd, a, a.categories.Items())
			})
		},
	}
}

func writeCategories(cmd *cobra.Command, a *app, categories []model.Category) error {
	out := cmd.OutOrStdout()
	if len(categories) == 0 {
		return printLine(out, cli.SubtleStyle.Render("No categories found. Use 'wallet categories add' or 'wallet categories defaults'."))
	}
	if err := cli.WriteCategories(out, categories); err != nil {
		return err
	}
	return warnOffline(cmd, a)
}

// parseIDArg parses a command line identifier.
func parseIDArg(entity, s string) (model.ID, error) {
	id := model.ParseID(s)
	if !id.Valid() {
		return id, &common.ValidationError{Field: entity, Reason: fmt.Sprintf("%q is not a valid identifier", s)}
	}
	return id, nil
}

// confirm asks before a destructive action unless skip is set.
func confirm(cmd *cobra.Command, skip bool, question string) (bool, error) {
	if skip {
		return true, nil
	}
	ok, err := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(cmd.Context(), question)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, printLine(cmd.OutOrStdout(), cli.SubtleStyle.Render("Canceled"))
	}
	return true, nil
}

func warnOffline(cmd *cobra.Command, a *app) error {
	if !a.offline() {
		return nil
	}
	return printLine(cmd.ErrOrStderr(), cli.FormatWarning("Server unreachable, changes are kept in the local cache"))
}
