package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <message-ids>",
		Short: "Download messages into the local cache",
		Long: `Download one or more messages in raw RFC-822 form into the local
cache and print a short header summary for each. Message IDs may be given as
separate arguments or comma-separated.

A message already in the cache is not downloaded again; the cache also keeps
the full original around after remove-attachments has rewritten it.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, _, err := newFetcher(cmd.Context())
			if err != nil {
				return err
			}
			identity, err := fetcher.Identity()
			if err != nil {
				return err
			}

			ids := parseMessageIDs(args)
			var failed int
			for _, id := range ids {
				msg, fromCache, err := fetcher.Fetch(id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}

				path := fetcher.Store().MessagePath(identity, id)
				if fromCache {
					fmt.Printf("Message %s (already cached at %s)\n", id, path)
				} else {
					fmt.Printf("Message %s (fetched to %s)\n", id, path)
				}

				summary, err := msg.HeaderSummary()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}
				fmt.Println(summary)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d messages failed", failed, len(ids))
			}
			return nil
		},
	}

	return cmd
}
