// Package google provides shared infrastructure for the Google Workspace
// connectors.
//
// The people, gmail and docs subpackages build on it for:
//   - a TokenSource adapter that bridges the token refresher to oauth2.TokenSource
//   - service factories for the People, Gmail, Docs and Drive clients
//   - classification of googleapi errors into domain.UpstreamError
//   - per-service rate limiting
//
// # Usage
//
//	client := google.NewClient(refresher, google.DefaultIntegration)
//	dir := people.NewDirectory(client)
//
// Every call builds its API service from the caller's context, so token
// refreshes and HTTP requests are cancelled together with the webhook
// request that triggered them.
//
// # OAuth2 Scopes
//
// The connectors need these scopes on the stored token:
//   - https://www.googleapis.com/auth/contacts.readonly
//   - https://www.googleapis.com/auth/gmail.readonly
//   - https://www.googleapis.com/auth/gmail.compose
//   - https://www.googleapis.com/auth/documents
//   - https://www.googleapis.com/auth/drive.file
package google
