package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mailtrim application
var rootCmd = &cobra.Command{
	Use:   "mailtrim",
	Short: "Strips attachments from Gmail messages",
	Long: `mailtrim queries a Gmail mailbox, downloads messages into a local
cache, and rewrites selected messages to remove their attachments while
keeping the original date. Attachments can be extracted to disk first. A
rewrite moves the original to the trash and inserts the stripped copy in
its place; the cached original and the trash both keep the message
recoverable.

It can run as:
  - A standalone CLI tool (find, fetch, list-attachments, remove-attachments, ...)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// Flags shared by every subcommand.
var (
	account  string
	cacheDir string
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mailtrim version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&account, "account", "default", "Google account name for multi-account support (e.g., work, personal)")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Root directory for the local message cache. Can also use MAILTRIM_CACHE_DIR env var. Default is the user cache directory.")

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newFindCmd())
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newListAttachmentsCmd())
	rootCmd.AddCommand(newExtractAttachmentsCmd())
	rootCmd.AddCommand(newRemoveAttachmentsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// parseMessageIDs flattens message ID arguments into a single list. Each
// argument may itself be a comma-separated list, so
// "mailtrim fetch id1,id2 id3" names three messages.
func parseMessageIDs(args []string) []string {
	var ids []string
	for _, arg := range args {
		ids = append(ids, parseCommaSeparatedList(arg)...)
	}
	return ids
}

// parseCommaSeparatedList parses a comma-separated string into a slice,
// trimming whitespace from each element and filtering out empty strings.
// Returns nil if the input is empty or contains only whitespace/commas.
func parseCommaSeparatedList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}
