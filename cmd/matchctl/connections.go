package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	connectionsCmd := &cobra.Command{Use: "connections", Short: "Connection graph operations"}

	listCmd := &cobra.Command{
		Use:   "list USER_ID",
		Short: "List a user's mutual connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/users/%s/connections", apiFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	connectionsCmd.AddCommand(listCmd)

	sentPendingCmd := &cobra.Command{
		Use:   "sent-pending USER_ID",
		Short: "List likes the user sent that were not reciprocated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/users/%s/connections/pending/sent", apiFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	connectionsCmd.AddCommand(sentPendingCmd)

	receivedPendingCmd := &cobra.Command{
		Use:   "received-pending USER_ID",
		Short: "List likes the user received and has not answered with a like",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/users/%s/connections/pending/received", apiFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	connectionsCmd.AddCommand(receivedPendingCmd)

	mutualCmd := &cobra.Command{
		Use:   "mutual USER_A USER_B",
		Short: "Check whether two users are mutually connected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/connections/%s/%s", apiFlag, args[0], args[1])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	connectionsCmd.AddCommand(mutualCmd)

	rootCmd.AddCommand(connectionsCmd)
}
