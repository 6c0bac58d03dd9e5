package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mailtrim/mailtrim/internal/rewrite"
)

func newRemoveAttachmentsCmd() *cobra.Command {
	var makeChanges bool

	cmd := &cobra.Command{
		Use:   "remove-attachments <message-ids>",
		Short: "Rewrite messages without their attachments",
		Long: `Rewrite one or more messages so they keep their text body but lose
their attachments. Every message is downloaded into the local cache first,
so the original bytes survive the rewrite. The original is then moved to
the trash and replaced by a copy that keeps the original headers and is
inserted with its date taken from the Date header, preserving the
message's place in the mailbox timeline.

Without --make-changes this is a dry run: the command prints each message's
headers and the attachments that would be removed, and the mailbox is not
touched. Messages without attachments are always left as they are.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, client, err := newFetcher(cmd.Context())
			if err != nil {
				return err
			}
			rewriter := rewrite.NewRewriter(client, fetcher, makeChanges, nil)

			ids := parseMessageIDs(args)
			var failed, skipped int
			for _, id := range ids {
				res, err := rewriter.RemoveAttachments(id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}
				printRewriteResult(res)
				if res.Outcome == rewrite.OutcomeSkipped {
					skipped++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d messages failed", failed, len(ids))
			}
			if skipped > 0 {
				fmt.Println("Dry run only. Re-run with --make-changes to apply.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&makeChanges, "make-changes", false, "Apply the rewrite. Without this flag the command only previews what would be removed.")

	return cmd
}

func printRewriteResult(res *rewrite.Result) {
	fmt.Printf("Message %s:\n%s", res.MessageID, res.Summary)

	switch res.Outcome {
	case rewrite.OutcomeNoAttachments:
		fmt.Println("No attachments, message left untouched")
	case rewrite.OutcomeSkipped:
		fmt.Printf("Preview only, %d attachment(s) would be removed:\n", len(res.Attachments))
		for _, att := range res.Attachments {
			fmt.Printf("  %s (%s)\n", att.Filename, formatSize(att.Size))
		}
	case rewrite.OutcomeStripped:
		fmt.Printf("Removed %d attachment(s), replacement message ID %s:\n", len(res.Attachments), res.NewMessageID)
		for _, att := range res.Attachments {
			fmt.Printf("  %s (%s)\n", att.Filename, formatSize(att.Size))
		}
	}
	fmt.Println()
}
