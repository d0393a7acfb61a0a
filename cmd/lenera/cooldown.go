package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/cli"
	"github.com/Veraticus/la-lenera/internal/cooldown"
)

func cooldownCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cooldown",
		Short: "Inspect or reset the order cooldown",
	}
	cmd.AddCommand(cooldownStatusCmd())
	cmd.AddCommand(cooldownClearCmd())
	return cmd
}

func cooldownStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the remaining cooldown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, site, err := loadSite()
			if err != nil {
				return err
			}
			store, err := initStorage(cmd.Context(), site)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			gate := cooldown.NewGate(store)
			secs, err := gate.Remaining(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if secs == 0 {
				fmt.Fprintln(out, cli.FormatSuccess("Sin cooldown activo"))
				return nil
			}
			fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("REINTENTO EN %ds", secs)))
			return nil
		},
	}
}

func cooldownClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the persisted cooldown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			out := cmd.OutOrStdout()

			_, site, err := loadSite()
			if err != nil {
				return err
			}

			if !yes {
				reader := cli.NewNonBlockingReader(cmd.InOrStdin())
				ok, err := reader.Confirm(cmd.Context(), out, "¿Borrar el cooldown?", false)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, cli.FormatInfo("Sin cambios"))
					return nil
				}
			}

			store, err := initStorage(cmd.Context(), site)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			if err := cooldown.NewGate(store).Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out, cli.FormatSuccess("Cooldown eliminado"))
			return nil
		},
	}
	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}
