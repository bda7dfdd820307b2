package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Nakkasenp65/device-assessment-dss/internal/hermes"
)

func newEventsCommand() *cobra.Command {
	var (
		natsURL string
		subject string
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print events published by the service until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := hermes.NewNATSClient(ctx, natsURL, cliLogger())
			if err != nil {
				return err
			}
			defer client.Close()

			out := cmd.OutOrStdout()
			if err := client.Subscribe(subject, func(subj string, data []byte) {
				fmt.Fprintf(out, "%s %s\n", subj, data)
			}); err != nil {
				return fmt.Errorf("subscribe %s: %w", subject, err)
			}

			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&natsURL, "nats", "nats://localhost:4222", "NATS server URL")
	cmd.Flags().StringVar(&subject, "subject", hermes.SubjectAll, "Subject to subscribe to")

	return cmd
}
