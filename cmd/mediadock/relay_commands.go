package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mediadock/internal/notifications"
)

func newRelayCommand(ctx *commandContext) *cobra.Command {
	relayCmd := &cobra.Command{
		Use:   "relay",
		Short: "Alert relay utilities",
	}

	relayCmd.AddCommand(&cobra.Command{
		Use:   "test [message]",
		Short: "Send a message to the configured Discord webhook",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			notifier := notifications.NewService(cfg)

			if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
				err = notifier.Send(cmd.Context(), args[0])
			} else {
				err = notifier.TestNotification(cmd.Context())
			}

			out := cmd.OutOrStdout()
			var upstream *notifications.UpstreamError
			switch {
			case err == nil:
				fmt.Fprintln(out, "Message delivered")
				return nil
			case errors.Is(err, notifications.ErrWebhookNotConfigured):
				fmt.Fprintln(out, "Webhook not configured; set relay.webhook_url or DISCORD_WEBHOOK_URL")
				return err
			case errors.As(err, &upstream):
				fmt.Fprintf(out, "Discord rejected the message (HTTP %d)\n", upstream.StatusCode)
				return err
			default:
				return fmt.Errorf("send message: %w", err)
			}
		},
	})
	return relayCmd
}
