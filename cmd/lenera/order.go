package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/navigate"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/tui"
	"github.com/Veraticus/la-lenera/internal/tui/themes"
)

func orderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place an order interactively",
		Long: `Open the interactive ordering flow in the terminal.

Choose a bundle, pick your neighborhood from the suggestions and a payment
method. After the validation finishes, "Solicitar despacho" opens WhatsApp
with the order already written. If no browser is available the link is
printed instead.`,
		RunE: runOrder,
	}

	cmd.Flags().String("theme", "default", "color theme (default, ash)")
	cmd.Flags().Bool("no-open", false, "print the link instead of opening a browser")
	cmd.Flags().Bool("no-alt-screen", false, "render inline instead of using the alternate screen")

	return cmd
}

func runOrder(cmd *cobra.Command, _ []string) error {
	themeName, _ := cmd.Flags().GetString("theme")
	noOpen, _ := cmd.Flags().GetBool("no-open")
	noAlt, _ := cmd.Flags().GetBool("no-alt-screen")

	cat, site, err := loadSite()
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context(), site)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	logger, closeLog, err := openLogFile(site)
	if err != nil {
		return err
	}
	defer closeLog()

	printer := navigate.NewPrinter(cmd.ErrOrStderr())
	var nav order.Navigator = navigate.Fallback{Primary: navigate.NewBrowser(), Printer: printer}
	if noOpen {
		nav = printer
	}

	deps, err := newDeps(cat, site, store, nav, clock.Real{}, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting order flow", "env", site.Env, "phone_source", site.PhoneSource)

	return tui.Run(cmd.Context(), tui.RunConfig{
		Input:  cmd.InOrStdin(),
		Output: cmd.OutOrStdout(),
		Logger: logger,
		Deps:   deps,
		Options: []tui.Option{
			tui.WithTheme(themes.GetTheme(themeName)),
			tui.WithAltScreen(!noAlt),
		},
		ControllerOptions: []order.Option{order.WithCooldown(site.Cooldown)},
	})
}
