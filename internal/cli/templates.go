package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShelfPlan/internal/model"
)

func newTemplatesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"racks"},
		Short:   "Manage rack templates",
	}
	cmd.AddCommand(newTemplatesListCmd(e))
	cmd.AddCommand(newTemplatesAddCmd(e))
	cmd.AddCommand(newTemplatesRemoveCmd(e))
	return cmd
}

func newTemplatesListCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List built-in and custom rack templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.templates()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(store.Templates))
			for _, t := range store.Templates {
				kind := "custom"
				if t.BuiltIn {
					kind = "built-in"
				}
				c := t.Config
				rows = append(rows, []string{
					t.ID,
					t.Name,
					strconv.FormatFloat(c.WidthCm, 'f', -1, 64),
					strconv.Itoa(c.NumberOfShelves),
					strconv.FormatFloat(c.ShelfHeightCm, 'f', -1, 64),
					strconv.FormatFloat(c.EdgeMarginCm, 'f', -1, 64),
					strconv.FormatFloat(c.InterProductGapCm, 'f', -1, 64),
					kind,
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{"ID", "Name", "Width", "Shelves", "Shelf H", "Margin", "Gap", "Kind"}, rows)
			return nil
		},
	}
}

func newTemplatesAddCmd(e *env) *cobra.Command {
	var (
		description string
		width       float64
		shelves     int
		shelfHeight float64
		margin      float64
		gap         float64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom rack template",
		Example: `  planogram templates add "Checkout Rack" --width 60 --shelves 3 --shelf-height 30
  planogram templates add "Wide Rack" --width 180 --shelves 6 --shelf-height 35 --margin 3 --gap 1.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := model.RackConfig{
				WidthCm:           width,
				EdgeMarginCm:      margin,
				InterProductGapCm: gap,
			}.WithShelves(shelves, shelfHeight)
			if err := config.Validate(); err != nil {
				return fmt.Errorf("invalid rack: %w", err)
			}

			store, err := e.templates()
			if err != nil {
				return err
			}
			if existing := store.FindByName(args[0]); existing != nil {
				return fmt.Errorf("a template named %q already exists (%s)", args[0], existing.ID)
			}

			t := model.NewRackTemplate(args[0], description, config)
			store.Add(t)
			if err := e.saveTemplates(store); err != nil {
				return fmt.Errorf("save templates: %w", err)
			}

			loggerFromContext(cmd.Context()).Debug("template added", "id", t.ID, "path", e.path("racks.json"))
			printSuccess(cmd.OutOrStdout(), "Added template %s (%s)", t.Name, t.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "template description")
	cmd.Flags().Float64Var(&width, "width", 120, "rack width in cm")
	cmd.Flags().IntVar(&shelves, "shelves", 5, "number of shelves")
	cmd.Flags().Float64Var(&shelfHeight, "shelf-height", 36, "height of every shelf in cm")
	cmd.Flags().Float64Var(&margin, "margin", model.DefaultEdgeMarginCm, "edge margin in cm")
	cmd.Flags().Float64Var(&gap, "gap", model.DefaultInterProductGapCm, "inter-product gap in cm")
	return cmd
}

func newTemplatesRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a custom rack template",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := e.templates()
			if err != nil {
				return err
			}
			t := store.FindByID(args[0])
			if t == nil {
				return fmt.Errorf("rack template %q not found", args[0])
			}
			if t.BuiltIn {
				return fmt.Errorf("%q is a built-in template and cannot be removed", args[0])
			}
			name := t.Name
			store.Remove(args[0])
			if err := e.saveTemplates(store); err != nil {
				return fmt.Errorf("save templates: %w", err)
			}
			printSuccess(cmd.OutOrStdout(), "Removed template %s", name)
			return nil
		},
	}
}
