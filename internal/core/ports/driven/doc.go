// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - TokenStore: OAuth token persistence (file, env, sql, redis, memory)
//   - TokenExchanger: OAuth2 token endpoint (refresh, code exchange)
//
// # Optional Interfaces
//
// These can be nil. Operations that need them fail with ErrNotImplemented:
//
//   - ContactDirectory: People API
//   - Mailbox: Gmail API
//   - DocumentWriter: Docs and Drive APIs
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
