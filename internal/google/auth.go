// Package google holds the clients for the two Google APIs the app depends
// on: the spreadsheet that acts as config store and registration log, and the
// organizer's calendar.
package google

import (
	"context"
	"fmt"
	"os"

	oauthgoogle "golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// credentialOptions loads service-account credentials from the given JSON
// key file for the requested scopes.
func credentialOptions(ctx context.Context, credentialsFile string, scopes ...string) (option.ClientOption, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file %s: %w", credentialsFile, err)
	}
	creds, err := oauthgoogle.CredentialsFromJSON(ctx, b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials file: %w", err)
	}
	return option.WithCredentials(creds), nil
}
