package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/catalog"
	"github.com/Veraticus/la-lenera/internal/cli"
	"github.com/Veraticus/la-lenera/internal/common"
	"github.com/Veraticus/la-lenera/internal/config"
)

func catalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Export or check the site catalog",
		Long: `The catalog holds bundles, neighborhoods, opening hours and testimonials.
Export the built-in one as a starting point, edit it, and point catalog.path
at the result.`,
	}
	cmd.AddCommand(catalogExportCmd())
	cmd.AddCommand(catalogCheckCmd())
	return cmd
}

func catalogExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			output, _ := cmd.Flags().GetString("output")

			cat, _, err := loadSite()
			if err != nil {
				return err
			}
			payload, err := catalog.Marshal(cat)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(payload)
				return err
			}
			path := config.ExpandPath(output)
			if err := os.WriteFile(path, payload, 0600); err != nil {
				return fmt.Errorf("failed to write catalog: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Catálogo exportado a "+path))
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "destination file (default: stdout)")
	return cmd
}

func catalogCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Validate a catalog file",
		Long:  "Validate the given catalog file, or the configured one when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalog.Catalog
				err error
			)
			if len(args) == 1 {
				cat, err = config.LoadCatalog(args[0])
			} else {
				cat, _, err = loadSite()
			}
			if err != nil {
				return common.NewUserError("Catálogo inválido", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatSuccess("Catálogo válido"))
			fmt.Fprintf(out, "  Paquetes:     %d\n", len(cat.Bundles))
			fmt.Fprintf(out, "  Barrios:      %d\n", len(cat.Neighborhoods))
			fmt.Fprintf(out, "  Testimonios:  %d\n", len(cat.Testimonials))
			fmt.Fprintf(out, "  Horario:      %02d:00 a %02d:00 (%s)\n",
				cat.Schedule.OpenHour, cat.Schedule.CloseHour, cat.Schedule.Timezone)
			return nil
		},
	}
}
