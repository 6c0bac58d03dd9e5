package google

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
)

// defaultAccount is the account name used by the legacy single-account API.
const defaultAccount = "default"

// accountNamePattern restricts account names so they are always safe to embed
// in a token file name.
var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateAccountName checks that an account name can be used as part of a
// token file name.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, hyphens and underscores are allowed", account)
	}
	return nil
}

// cacheDir returns the directory holding token files and the optional
// credentials.json.
func cacheDir() string {
	return filepath.Join(userCacheDir(), "mailtrim")
}

// getTokenFilePath returns the token file path for an account.
// The account name must already be validated.
func getTokenFilePath(account string) string {
	return filepath.Join(cacheDir(), fmt.Sprintf("google-%s.token", account))
}

// HasToken checks if a valid OAuth token exists for the default account.
func HasToken() bool {
	return HasTokenForAccount(defaultAccount)
}

// HasTokenForAccount checks if a token file exists for the given account.
func HasTokenForAccount(account string) bool {
	if err := validateAccountName(account); err != nil {
		return false
	}
	_, err := os.ReadFile(getTokenFilePath(account))
	return err == nil
}

// MigrateDefaultToken renames a legacy single-account token file
// (google.token) to the per-account scheme (google-default.token).
// It is safe to call on every start; it does nothing when there is
// nothing to migrate.
func MigrateDefaultToken() error {
	oldPath := filepath.Join(cacheDir(), "google.token")
	newPath := getTokenFilePath(defaultAccount)

	if _, err := os.Stat(oldPath); os.IsNotExist(err) {
		return nil
	}
	if _, err := os.Stat(newPath); err == nil {
		// A per-account token already exists; keep the legacy file untouched.
		return nil
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("failed to migrate legacy token file: %w", err)
	}
	return nil
}

// ListAccounts returns the names of all accounts with a stored token,
// sorted alphabetically.
func ListAccounts() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(cacheDir(), "google-*.token"))
	if err != nil {
		return nil, fmt.Errorf("failed to list token files: %w", err)
	}
	accounts := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "google-"), ".token")
		if validateAccountName(name) == nil {
			accounts = append(accounts, name)
		}
	}
	sort.Strings(accounts)
	return accounts, nil
}

// GetOAuthConfig returns the OAuth2 configuration for the Gmail API.
//
// The client is resolved from MAILTRIM_GOOGLE_CLIENT_ID and
// MAILTRIM_GOOGLE_CLIENT_SECRET, or from an installed-app credentials.json
// (path in MAILTRIM_CREDENTIALS, default <cache>/credentials.json).
func GetOAuthConfig() (*oauth2.Config, error) {
	const oobRedirect = "urn:ietf:wg:oauth:2.0:oob"

	id := os.Getenv("MAILTRIM_GOOGLE_CLIENT_ID")
	secret := os.Getenv("MAILTRIM_GOOGLE_CLIENT_SECRET")
	if id != "" && secret != "" {
		return &oauth2.Config{
			ClientID:     id,
			ClientSecret: secret,
			Endpoint:     google.Endpoint,
			RedirectURL:  oobRedirect,
			Scopes: []string{
				gmail.MailGoogleComScope, // Full Gmail access (raw fetch, insert, trash)
			},
		}, nil
	}

	path := os.Getenv("MAILTRIM_CREDENTIALS")
	if path == "" {
		path = filepath.Join(cacheDir(), "credentials.json")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no OAuth client configured: set MAILTRIM_GOOGLE_CLIENT_ID and MAILTRIM_GOOGLE_CLIENT_SECRET, or place an installed-app credentials.json at %s", path)
	}
	conf, err := google.ConfigFromJSON(data, gmail.MailGoogleComScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OAuth credentials at %s: %w", path, err)
	}
	conf.RedirectURL = oobRedirect
	return conf, nil
}

// GetAuthURL returns the OAuth URL for user authorization for the default account.
func GetAuthURL() (string, error) {
	return GetAuthURLForAccount(defaultAccount)
}

// GetAuthURLForAccount returns the OAuth URL for user authorization for a specific account.
func GetAuthURLForAccount(account string) (string, error) {
	if err := validateAccountName(account); err != nil {
		return "", err
	}
	conf, err := GetOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline), nil
}

// SaveToken exchanges an authorization code for tokens and saves them
// for the default account.
func SaveToken(ctx context.Context, authCode string) error {
	return SaveTokenForAccount(ctx, defaultAccount, authCode)
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves
// them for a specific account.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}
	conf, err := GetOAuthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}
	if t.RefreshToken == "" {
		return fmt.Errorf("no refresh token in response; revoke the app's access at https://myaccount.google.com/permissions and authenticate again")
	}

	if err := os.MkdirAll(cacheDir(), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(getTokenFilePath(account), []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// GetTokenSource returns an OAuth2 token source for the default account.
func GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return GetTokenSourceForAccount(ctx, defaultAccount)
}

// GetTokenSourceForAccount returns an OAuth2 token source for the stored token
// of the given account. The stored access token is treated as expired so the
// source refreshes it immediately, which also validates the refresh token.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}
	conf, err := GetOAuthConfig()
	if err != nil {
		return nil, err
	}

	slurp, err := os.ReadFile(getTokenFilePath(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %q", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format for account %q", account)
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token
	if _, err := ts.Token(); err != nil {
		log.Printf("Cached token for account %q invalid: %v", account, err)
		return nil, fmt.Errorf("cached token for account %q is invalid: %w", account, err)
	}

	return ts, nil
}

// GetHTTPClient returns an authenticated HTTP client for the default account.
func GetHTTPClient(ctx context.Context) (*http.Client, error) {
	return GetHTTPClientForAccount(ctx, defaultAccount)
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the given account.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors.
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	return client, nil
}

// GetAuthenticationErrorMessage returns an actionable message for a missing or
// invalid token, including the consent URL when the OAuth client is configured.
func GetAuthenticationErrorMessage(account string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "No valid Google OAuth token found for account %q.\n\n", account)
	if url, err := GetAuthURLForAccount(account); err == nil {
		b.WriteString("To authenticate:\n")
		fmt.Fprintf(&b, "  1. Open this URL in your browser:\n\n     %s\n\n", url)
		b.WriteString("  2. Grant access and copy the authorization code\n")
		fmt.Fprintf(&b, "  3. Run: mailtrim auth --account %s <code>\n", account)
	} else {
		fmt.Fprintf(&b, "The OAuth client is not configured: %v\n", err)
	}
	return b.String()
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
