package gmail

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/mailtrim/mailtrim/internal/google"
)

// Client wraps the Gmail Users service for a single account.
type Client struct {
	svc     *gmail.UsersService
	account string
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the
// specified account using the given token provider
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccount creates a new Gmail client with OAuth2 authentication for a specific account
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := gmail.New(client)
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClientForAccountWithProvider creates a new Gmail client for a specific
// account with the OAuth token retrieved from the given token provider
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	// Wrap the token in the OAuth config's token source so it refreshes
	// automatically when it expires
	conf, err := google.GetOAuthConfig()
	if err != nil {
		return nil, err
	}
	client := oauth2.NewClient(ctx, conf.TokenSource(ctx, token))

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := gmail.New(client)
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:     svc.Users,
		account: account,
	}, nil
}

// NewClient creates a new Gmail client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ForeachMessage iterates over all messages matching the query. The messages
// passed to fn are list stubs carrying only IDs; fetch them for content.
func (c *Client) ForeachMessage(q string, fn func(*gmail.Message) error) error {
	pageToken := ""
	for {
		req := c.svc.Messages.List("me").Q(q)
		if pageToken != "" {
			req.PageToken(pageToken)
		}
		res, err := req.Do()
		if err != nil {
			return err
		}
		for _, m := range res.Messages {
			if err := fn(m); err != nil {
				return err
			}
		}
		if res.NextPageToken == "" {
			return nil
		}
		pageToken = res.NextPageToken
	}
}

// FindMessages lists messages matching the query with pagination
// It will fetch up to maxResults messages, making multiple API calls if necessary
func (c *Client) FindMessages(q string, maxResults int64) ([]*gmail.Message, error) {
	var allMessages []*gmail.Message
	pageToken := ""

	for {
		remaining := maxResults - int64(len(allMessages))
		if remaining <= 0 {
			break
		}

		// Gmail API has a max page size, typically 100
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").Q(q).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, err
		}

		allMessages = append(allMessages, res.Messages...)

		if res.NextPageToken == "" || int64(len(allMessages)) >= maxResults {
			break
		}

		pageToken = res.NextPageToken
	}

	if int64(len(allMessages)) > maxResults {
		allMessages = allMessages[:maxResults]
	}

	return allMessages, nil
}
