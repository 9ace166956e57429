// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The payload normalizer is the one exception to the import rule: it
// parses webhook bodies with gjson.
package services
