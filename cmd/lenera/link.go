package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/cli"
	"github.com/Veraticus/la-lenera/internal/clock"
	"github.com/Veraticus/la-lenera/internal/common"
	"github.com/Veraticus/la-lenera/internal/compose"
	"github.com/Veraticus/la-lenera/internal/cooldown"
	"github.com/Veraticus/la-lenera/internal/model"
	"github.com/Veraticus/la-lenera/internal/navigate"
	"github.com/Veraticus/la-lenera/internal/order"
	"github.com/Veraticus/la-lenera/internal/sequencer"
)

func linkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Compose the WhatsApp link for an order",
		Long: `Compose an order without the interactive flow.

The zone must match a known neighborhood (case does not matter) or be the
"unknown neighborhood" entry. The validation steps are replayed as a progress
bar first unless --no-progress is given. A successful link starts the same
cooldown as the interactive flow.`,
		Example: `  lenera link --zone Centro
  lenera link --bundle asado --zone "la playa" --payment nequi --open`,
		RunE: runLink,
	}

	cmd.Flags().String("bundle", "", "bundle id (default: the popular bundle)")
	cmd.Flags().String("zone", "", "neighborhood name")
	cmd.Flags().String("payment", string(model.PaymentCash), "payment method (efectivo, nequi)")
	cmd.Flags().Bool("no-progress", false, "skip the validation replay")
	cmd.Flags().Bool("open", false, "open the link in the browser")
	_ = cmd.MarkFlagRequired("zone")

	return cmd
}

func runLink(cmd *cobra.Command, _ []string) error {
	bundleID, _ := cmd.Flags().GetString("bundle")
	zoneQuery, _ := cmd.Flags().GetString("zone")
	paymentRaw, _ := cmd.Flags().GetString("payment")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	open, _ := cmd.Flags().GetBool("open")
	out := cmd.OutOrStdout()

	cat, site, err := loadSite()
	if err != nil {
		return err
	}

	store, err := initStorage(cmd.Context(), site)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	printer := navigate.NewPrinter(out)
	deps, err := newDeps(cat, site, store, navigate.Fallback{Primary: navigate.NewBrowser(), Printer: printer}, clock.Real{}, slog.Default())
	if err != nil {
		return err
	}

	bundle := cat.DefaultBundle()
	if bundleID != "" {
		var ok bool
		if bundle, ok = cat.Bundle(bundleID); !ok {
			return common.NewUserError(fmt.Sprintf("Paquete desconocido: %s", bundleID), common.ErrNotFound)
		}
	}
	payment, err := model.ParsePaymentMethod(paymentRaw)
	if err != nil {
		return common.NewUserError("Método de pago desconocido (usa efectivo o nequi)", err)
	}
	zoneName, ok := deps.Matcher.Resolve(zoneQuery)
	if !ok {
		suggestions := deps.Matcher.Suggest(zoneQuery)
		return common.NewUserError(
			fmt.Sprintf("Barrio no reconocido: %q. Prueba con: %s", zoneQuery, strings.Join(suggestions, ", ")),
			common.ErrNotFound)
	}

	ctx := cmd.Context()
	// The greeting follows the viewer's clock; opening hours use the
	// business timezone inside the gate.
	now := wallClock().Local()
	if secs, _ := deps.Cooldown.Remaining(ctx, now); secs > 0 {
		return common.NewUserError(fmt.Sprintf("REINTENTO EN %ds", secs), order.ErrCoolingDown)
	}

	attemptID := uuid.NewString()
	logger := slog.Default().With("attempt_id", attemptID)
	logger.Info("Composing order link", "bundle", bundle.ID, "zone", zoneName, "payment", string(payment))

	if !noProgress {
		handler := cli.NewInterruptHandler(cmd.ErrOrStderr(), "Validación cancelada")
		replayCtx := handler.HandleInterrupts(ctx)
		err := cli.ReplayValidation(replayCtx, out, sequencer.New(clock.Real{}))
		handler.Stop()
		if err != nil {
			return fmt.Errorf("validation interrupted: %w", err)
		}
		now = wallClock().Local()
	}

	isOpen := deps.Hours.IsOpen(now)
	msg := deps.Composer.Compose(compose.Order{
		Zone:    zoneName,
		Payment: payment,
		Bundle:  bundle,
		Open:    isOpen,
	}, now)

	if err := deps.Cooldown.Arm(ctx, now, site.Cooldown); err != nil {
		logger.Warn("Failed to persist cooldown", "error", err)
	}

	fmt.Fprintln(out, cli.RenderBox("💬 Pedido listo", msg.Text))
	if !isOpen {
		fmt.Fprintln(out, cli.FormatWarning("Horario cerrado: se coordina en el primer turno."))
	}
	if open {
		return deps.Navigator.Open(ctx, msg.URL)
	}
	fmt.Fprintln(out, msg.URL)
	logger.Debug("Order link printed", "cooldown_seconds", cooldown.Seconds(now.Add(site.Cooldown), now))
	return nil
}
