package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/la-lenera/internal/cli"
	"github.com/Veraticus/la-lenera/internal/common"
	"github.com/Veraticus/la-lenera/internal/hours"
)

func hoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Show whether La Leñera is dispatching now",
		RunE:  runHours,
	}
	cmd.Flags().String("at", "", "check a specific instant (RFC 3339) instead of now")
	return cmd
}

func runHours(cmd *cobra.Command, _ []string) error {
	at, _ := cmd.Flags().GetString("at")
	out := cmd.OutOrStdout()

	cat, _, err := loadSite()
	if err != nil {
		return err
	}
	gate, err := hours.FromSchedule(cat.Schedule)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}

	now := time.Now()
	if at != "" {
		if now, err = time.Parse(time.RFC3339, at); err != nil {
			return common.NewUserError("Fecha inválida, usa RFC 3339 (2025-03-10T15:00:00-05:00)", err)
		}
	}
	local := now.In(gate.Location())
	isOpen := gate.IsOpen(now)

	status := cli.FormatWarning(hours.StatusLabel(isOpen))
	if isOpen {
		status = cli.FormatSuccess(hours.StatusLabel(isOpen))
	}
	fmt.Fprintln(out, status)
	fmt.Fprintf(out, "%s %s · %s\n", cli.ClockIcon, local.Format("15:04"), cat.Schedule.Timezone)
	fmt.Fprintf(out, "Horario: %02d:00 a %02d:00\n", cat.Schedule.OpenHour, cat.Schedule.CloseHour)
	fmt.Fprintf(out, "Compromiso de entrega: %s\n", hours.DeliveryCommitment(isOpen))
	return nil
}
