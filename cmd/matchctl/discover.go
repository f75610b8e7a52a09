package main

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	var page, pageSize int
	discoverCmd := &cobra.Command{
		Use:   "discover USER_ID",
		Short: "Rank candidate matches for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("page", strconv.Itoa(page))
			q.Set("pageSize", strconv.Itoa(pageSize))
			u := fmt.Sprintf("%s/api/users/%s/discover?%s", apiFlag, args[0], q.Encode())
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	discoverCmd.Flags().IntVarP(&page, "page", "p", 1, "Page number (1-based)")
	discoverCmd.Flags().IntVarP(&pageSize, "size", "s", 20, "Candidates per page")
	rootCmd.AddCommand(discoverCmd)

	var limit int
	var cursor string
	feedCmd := &cobra.Command{
		Use:   "feed USER_ID",
		Short: "Fetch a user's aggregated connection feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if limit > 0 {
				q.Set("limit", strconv.Itoa(limit))
			}
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			u := fmt.Sprintf("%s/api/users/%s/feed", apiFlag, args[0])
			if enc := q.Encode(); enc != "" {
				u += "?" + enc
			}
			data, err := doGet(u)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	feedCmd.Flags().IntVarP(&limit, "limit", "l", 0, "Items per page (0 uses the server default)")
	feedCmd.Flags().StringVarP(&cursor, "cursor", "c", "", "Cursor from a previous page")
	rootCmd.AddCommand(feedCmd)
}
