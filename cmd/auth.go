package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mailtrim/mailtrim/internal/google"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth [code]",
		Short: "Authorize Gmail access for an account",
		Long: `Authorize mailtrim to access a Gmail account.

Without arguments, auth prints the consent URL for the configured OAuth
client. Open it in a browser, sign in, grant access, and run the command
again with the authorization code:

  mailtrim auth
  mailtrim auth 4/0AenX...
  mailtrim auth --account work 4/0AenX...

The OAuth client comes from the MAILTRIM_GOOGLE_CLIENT_ID and
MAILTRIM_GOOGLE_CLIENT_SECRET environment variables, or from an
installed-app credentials.json in the mailtrim cache directory.

Tokens are stored per account under the user cache directory, so several
accounts can stay authorized side by side.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := google.MigrateDefaultToken(); err != nil {
				return err
			}
			if len(args) == 0 {
				return printAuthURL()
			}
			return exchangeAuthCode(cmd.Context(), args[0])
		},
	}

	return cmd
}

func printAuthURL() error {
	authURL, err := google.GetAuthURLForAccount(account)
	if err != nil {
		return err
	}

	fmt.Printf("To authorize Gmail access for account %q:\n\n", account)
	fmt.Printf("  1. Open this URL in your browser:\n\n     %s\n\n", authURL)
	fmt.Println("  2. Sign in and grant access to Gmail")
	fmt.Println("  3. Copy the authorization code")
	fmt.Printf("  4. Run: mailtrim auth --account %s <code>\n", account)

	if accounts, err := google.ListAccounts(); err == nil && len(accounts) > 0 {
		fmt.Printf("\nAccounts already authorized: %s\n", strings.Join(accounts, ", "))
	}
	return nil
}

func exchangeAuthCode(ctx context.Context, code string) error {
	if err := google.SaveTokenForAccount(ctx, account, code); err != nil {
		return fmt.Errorf("authorization failed for account %s: %w", account, err)
	}
	fmt.Printf("Authorization successful for account %q. Gmail token saved.\n", account)
	return nil
}
