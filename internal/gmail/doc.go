// Package gmail provides a client for interacting with the Gmail API.
//
// This package covers the mailbox operations the tool needs:
//   - Finding messages by query with pagination
//   - Fetching messages in raw RFC-822 form or as metadata
//   - Inserting raw messages with the Date header as internal date
//   - Moving messages to the trash or deleting them permanently
//
// The client supports multi-account authentication using the Google OAuth2
// flow. Tokens are loaded from the file system (~/.cache/mailtrim/) through
// the google package.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := gmail.NewClientForAccount(ctx, "work")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List messages matching a query
//	msgs, err := client.FindMessages("has:attachment larger:5M", 100)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Fetch one in raw form
//	raw, err := client.GetRawMessage(msgs[0].Id)
//	if err != nil {
//	    log.Fatal(err)
//	}
package gmail
