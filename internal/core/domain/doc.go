// Package domain defines the core business entities for tinatools.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StoredToken: The OAuth2 token persisted per integration
//   - NormalizedCall: The operation extracted from a webhook body
//   - ResponseEnvelope: The outcome of dispatching a call
//   - Contact, Email, Draft, NewDocument: Workspace payloads
//   - Settings: Explicit configuration passed to constructors
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
