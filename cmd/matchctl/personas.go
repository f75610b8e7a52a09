package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	personaCmd := &cobra.Command{Use: "persona", Short: "Interest profile operations"}

	var personaJSON string
	putCmd := &cobra.Command{
		Use:   "put USER_ID",
		Short: "Store a user's interest profile from a JSON payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if personaJSON == "" {
				return fmt.Errorf("--json payload required")
			}
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(personaJSON), &payload); err != nil {
				return fmt.Errorf("persona must be a JSON object: %w", err)
			}
			url := fmt.Sprintf("%s/api/users/%s/persona", apiFlag, args[0])
			data, err := doPutJSON(url, payload)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	putCmd.Flags().StringVarP(&personaJSON, "json", "j", "", "Persona JSON object (required)")
	_ = putCmd.MarkFlagRequired("json")
	personaCmd.AddCommand(putCmd)

	getCmd := &cobra.Command{
		Use:   "get USER_ID",
		Short: "Get a user's interest profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := fmt.Sprintf("%s/api/users/%s/persona", apiFlag, args[0])
			data, err := doGet(url)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	personaCmd.AddCommand(getCmd)

	rootCmd.AddCommand(personaCmd)
}
