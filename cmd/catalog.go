package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spigell/jobrank/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog [category]",
	Short: "List the skill categories and the skills they recognize",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := ""
		if len(args) == 1 {
			category = args[0]
		}
		return printCatalog(cmd.OutOrStdout(), catalog.Default(), category)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

// printCatalog writes one line per category, or only the given one.
func printCatalog(w io.Writer, c *catalog.Catalog, category string) error {
	found := false
	for _, cat := range c.Categories() {
		if category != "" && !strings.EqualFold(cat.Name, category) {
			continue
		}
		found = true
		if _, err := fmt.Fprintf(w, "%s (%d): %s\n", cat.Name, len(cat.Skills), strings.Join(cat.Skills, ", ")); err != nil {
			return err
		}
	}

	if !found {
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}
