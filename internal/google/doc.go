// Package google provides OAuth2 authentication and token management for the
// Gmail API.
//
// Tokens are stored per account in the user cache directory as
// google-<account>.token files. The OAuth client itself comes from the
// MAILTRIM_GOOGLE_CLIENT_ID / MAILTRIM_GOOGLE_CLIENT_SECRET environment
// variables or from an installed-app credentials.json next to the tokens.
//
// The TokenProvider interface allows other token sources to be plugged in
// without changing the gateway client.
package google
