package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newListAttachmentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-attachments <message-ids>",
		Short: "List the attachments of messages",
		Long: `List the attachments of one or more messages with their decoded
sizes. The messages are downloaded into the local cache on first access; the
mailbox itself is never modified.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fetcher, _, err := newFetcher(cmd.Context())
			if err != nil {
				return err
			}

			ids := parseMessageIDs(args)
			var failed int
			for _, id := range ids {
				msg, _, err := fetcher.Fetch(id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}

				attachments, err := msg.ListAttachments()
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}

				if len(attachments) == 0 {
					fmt.Printf("Message %s: no attachments\n", id)
					continue
				}
				fmt.Printf("Message %s: %d attachment(s)\n", id, len(attachments))
				for _, att := range attachments {
					fmt.Printf("  %s (%s)\n", att.Filename, formatSize(att.Size))
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d messages failed", failed, len(ids))
			}
			return nil
		},
	}

	return cmd
}

func newExtractAttachmentsCmd() *cobra.Command {
	var destDir string

	cmd := &cobra.Command{
		Use:   "extract-attachments <message-ids>",
		Short: "Write the attachments of messages to local files",
		Long: `Write the attachments of one or more messages to local files. By
default each message gets its own directory under the cache root; --dir
redirects all extracted files into a single directory. Filenames are
sanitized, and a numeric suffix keeps colliding names apart.

Attachments without a filename are skipped. The mailbox itself is never
modified; pair this command with remove-attachments to keep a copy of what
the rewrite strips.`,
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
				msg, _, err := fetcher.Fetch(id)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}

				dir := destDir
				if dir == "" {
					dir, err = fetcher.Store().EnsureExtractionDir(identity, id)
					if err != nil {
						fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
						failed++
						continue
					}
				}

				written, err := msg.ExtractAttachments(dir)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error: message %s: %v\n", id, err)
					failed++
					continue
				}

				if len(written) == 0 {
					fmt.Printf("Message %s: no named attachments to extract\n", id)
					continue
				}
				fmt.Printf("Message %s: extracted %d attachment(s)\n", id, len(written))
				for _, path := range written {
					fmt.Printf("  %s\n", path)
				}
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d messages failed", failed, len(ids))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&destDir, "dir", "", "Directory to extract into (default: per-message directory under the cache root)")

	return cmd
}

// formatSize converts a size in bytes to a human-readable string
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/float64(GB))
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/float64(MB))
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/float64(KB))
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
