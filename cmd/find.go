package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	gmailapi "google.golang.org/api/gmail/v1"
)

func newFindCmd() *cobra.Command {
	var (
		maxResults int64
		csvOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "find <query>",
		Short: "Find message IDs matching a Gmail search query",
		Long: `Find messages matching a Gmail search query and print their IDs,
one per line. The query uses the same syntax as the Gmail search box:

  mailtrim find "from:newsletter@example.com has:attachment"
  mailtrim find "larger:5M older_than:1y" --csv

The printed IDs feed directly into the fetch, list-attachments and
remove-attachments commands. With --csv the IDs are joined with commas on a
single line, ready to paste as one argument.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newGmailClient(cmd.Context())
			if err != nil {
				return err
			}

			query := args[0]
			var ids []string
			if maxResults > 0 {
				msgs, err := client.FindMessages(query, maxResults)
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
				for _, m := range msgs {
					ids = append(ids, m.Id)
				}
			} else {
				err := client.ForeachMessage(query, func(m *gmailapi.Message) error {
					ids = append(ids, m.Id)
					return nil
				})
				if err != nil {
					return fmt.Errorf("search failed: %w", err)
				}
			}

			if len(ids) == 0 {
				fmt.Fprintln(os.Stderr, "No messages match the query")
				return nil
			}

			if csvOutput {
				fmt.Println(strings.Join(ids, ","))
			} else {
				for _, id := range ids {
					fmt.Println(id)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&maxResults, "max", 100, "Maximum number of messages to return (0 means no limit)")
	cmd.Flags().BoolVar(&csvOutput, "csv", false, "Print the IDs comma-separated on a single line")

	return cmd
}
