package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func ask(config *Config) *cobra.Command {
	var user string

	askCmd := &cobra.Command{
		Use:     "ask <message>",
		Short:   "Send one message to the bot and print the reply",
		Example: "currency-bot ask how much 100 USD to EUR\ncurrency-bot ask 美元可以换多少人民币",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, ok := config.Dispatcher.Handle(cmd.Context(), user, strings.Join(args, " "))

			if !ok {
				fmt.Fprintln(cmd.ErrOrStderr(), "not a currency command, try: currency-bot ask rate")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), reply)

			return nil
		},
	}

	askCmd.Flags().StringVar(&user, "user", "cli", "User the message is sent as")

	return askCmd
}
