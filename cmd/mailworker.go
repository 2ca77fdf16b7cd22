/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/travel-web/apiserver/config"
	"github.com/travel-web/apiserver/internal/mail"
)

// mailworkerCmd represents the mailworker command. It drains the
// outgoing-mail channel that the server publishes to when MAIL_BACKEND
// is rabbitmq or pubsub.
var mailworkerCmd = &cobra.Command{
	Use:   "mailworker",
	Short: "Deliver queued notification mail",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		var broker mail.Broker
		var err error
		switch cfg.Mail.Backend {
		case "rabbitmq":
			broker, err = mail.NewRabbitMQBroker(cfg.Mail.RabbitMQ)
		case "pubsub":
			broker, err = mail.NewPubSubBroker(cmd.Context(), cfg.Mail.PubSub)
		default:
			return fmt.Errorf("mailworker needs MAIL_BACKEND=rabbitmq or pubsub, got %q", cfg.Mail.Backend)
		}
		if err != nil {
			return fmt.Errorf("connect broker failed: %w", err)
		}
		defer func() {
			_ = broker.Close()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sender := mail.NewLogSender()
		deliver := func(ctx context.Context, m mail.Mail) error {
			return sender.Send(ctx, m)
		}
		return mail.Consume(ctx, broker, cfg.Mail.Channel, deliver)
	},
}

func init() {
	rootCmd.AddCommand(mailworkerCmd)
}
