package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/cli"
	"github.com/Veraticus/la-lenera/internal/zone"
)

func zonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones [query]",
		Short: "Look up delivery neighborhoods",
		Long: `Show the suggestions offered for a partial neighborhood name.

Without a query the full list of served neighborhoods is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runZones,
	}
	cmd.Flags().Bool("all", false, "list every neighborhood")
	return cmd
}

func runZones(cmd *cobra.Command, args []string) error {
	all, _ := cmd.Flags().GetBool("all")
	out := cmd.OutOrStdout()

	cat, _, err := loadSite()
	if err != nil {
		return err
	}
	matcher := zone.NewMatcher(cat.Neighborhoods, catalog.Sentinel)

	if len(args) == 0 || all {
		fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%d barrios en %s", len(cat.Neighborhoods), cat.City)))
		for _, n := range cat.Neighborhoods {
			fmt.Fprintf(out, "  %s %s\n", cli.PinIcon, n)
		}
		return nil
	}

	query := strings.Join(args, " ")
	if name, ok := matcher.Resolve(query); ok {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("%s es un barrio válido", name)))
		return nil
	}

	fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%q no es un barrio reconocido", query)))
	for i, s := range matcher.Suggest(query) {
		fmt.Fprintf(out, "  %d. %s\n", i+1, s)
	}
	return nil
}
