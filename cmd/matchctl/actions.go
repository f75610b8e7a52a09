package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	actionsCmd := &cobra.Command{Use: "actions", Short: "Swipe action operations"}

	var kind string
	recordCmd := &cobra.Command{
		Use:   "record ACTOR_ID TARGET_ID",
		Short: "Record a like or reject from one user to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]interface{}{
				"actorId":  args[0],
				"targetId": args[1],
				"kind":     kind,
			}
			url := fmt.Sprintf("%s/api/actions", apiFlag)
			data, err := doPostJSON(url, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	recordCmd.Flags().StringVarP(&kind, "kind", "k", "like", "Action kind: like or reject")
	actionsCmd.AddCommand(recordCmd)

	getCmd := &cobra.Command{
		Use:   "get ACTOR_ID TARGET_ID",
		Short: "Get the action from one user to another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/actions/%s/%s", apiFlag, args[0], args[1])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	actionsCmd.AddCommand(getCmd)

	sentCmd := &cobra.Command{
		Use:   "sent USER_ID",
		Short: "List actions a user has taken",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/users/%s/actions", apiFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	actionsCmd.AddCommand(sentCmd)

	receivedCmd := &cobra.Command{
		Use:   "received USER_ID",
		Short: "List actions targeting a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/users/%s/actions/received", apiFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	actionsCmd.AddCommand(receivedCmd)

	rootCmd.AddCommand(actionsCmd)
}
