package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"bdactivity/internal/amqp"
)

func newInvalidateCmd(a *app) *cobra.Command {
	var (
		all    bool
		reason string
	)
	cmd := &cobra.Command{
		Use:   "invalidate",
		Short: "Tell running servers to reload the activity dataset",
		Long: `Publish a dataset invalidation message on AMQP_URL. Servers consuming
the queue drop their memoized dataset and reload it on the next request.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if !cfg.AMQPEnabled() {
				return fmt.Errorf("AMQP_URL is not set")
			}

			client, err := amqp.NewClient(amqp.Config{
				URL:      cfg.AMQPURL,
				Exchange: cfg.AMQPExchange,
				Queue:    cfg.AMQPQueue,
				Logger:   a.logger,
			})
			if err != nil {
				return err
			}
			defer client.Close()

			msg := amqp.NewDatasetInvalidateMessage(cfg.DataSource, reason, all)
			if err := client.PublishInvalidate(cmd.Context(), msg); err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), msg, func(io.Writer) ([]string, [][]string) {
				return []string{"Message", "Queue", "All"}, [][]string{{msg.ID, cfg.AMQPQueue, strconv.FormatBool(msg.All)}}
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Drop every memoized dataset version")
	cmd.Flags().StringVar(&reason, "reason", "manual", "Reason recorded in the message")
	return cmd
}
