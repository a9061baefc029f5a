package cli

import (
	"encoding/csv"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chemsafe/chemsafe/internal/chem"
)

// newQueryCmd creates the query command, which displays one stored record
// by CAS number or name.
func newQueryCmd(a *app) *cobra.Command {
	var (
		format   string
		property string
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "query <cas-number-or-name>",
		Short: "Show stored data for a chemical",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := a.openStore()
			if err != nil {
				return err
			}
			defer db.Close()

			c, err := findChemical(ctx, db, args[0])
			if err != nil {
				return err
			}

			if property != "" {
				return writeProperty(cmd, c, property)
			}

			switch format {
			case "text":
				writeChemicalText(cmd.OutOrStdout(), c, verbose)
				return nil
			case "json":
				return printJSON(cmd.OutOrStdout(), c)
			case "csv":
				return writeChemicalCSV(cmd, c)
			default:
				return fmt.Errorf("unsupported output format %q (want text, json, or csv)", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, json, or csv")
	cmd.Flags().StringVarP(&property, "property", "p", "",
		"print a single property value (e.g. flash_point)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "include detailed property categories")

	return cmd
}

func writeProperty(cmd *cobra.Command, c *chem.Chemical, property string) error {
	known := false
	for _, name := range chem.QueryableProperties {
		if name == property {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("unknown property %q (see chemsafe query --help for the property list)",
			property)
	}

	v, ok := c.Properties()[property]
	if !ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s has no %s recorded\n", c.Name, propertyLabel(property))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), v)
	return nil
}

func writeChemicalCSV(cmd *cobra.Command, c *chem.Chemical) error {
	props := c.Properties()
	w := csv.NewWriter(cmd.OutOrStdout())

	if err := w.Write([]string{"property", "value"}); err != nil {
		return err
	}
	for _, cat := range chem.DisplayCategories {
		for _, name := range cat.Properties {
			v, ok := props[name]
			if !ok {
				continue
			}
			if err := w.Write([]string{name, fmt.Sprint(v)}); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}
