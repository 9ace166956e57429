// Package file loads tinatools settings from a TOML file, an optional .env
// file and the process environment, in that order of increasing precedence.
package file
