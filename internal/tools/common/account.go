package common

// GetAccountFromArgs extracts the account name from request arguments.
// Falls back to "default" when no account is explicitly provided, matching
// the CLI's default token slot.
func GetAccountFromArgs(args map[string]interface{}) string {
	if accountVal, ok := args["account"].(string); ok && accountVal != "" {
		return accountVal
	}
	return "default"
}
