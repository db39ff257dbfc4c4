// Package commands defines the incorporator CLI.
//
// Commands
//
//   - new       Start a new company formation
//   - resume    Continue a saved formation (picker when no id is given)
//   - sessions  List saved formations without decrypting them
//   - delete    Remove a saved formation
//
// # Configuration
//
// Settings resolve from flags, INCORPORATOR_* environment variables,
// <home>/config.yaml, and built-in defaults, in that order. The passphrase
// protecting saved sessions comes from -p, INCORPORATOR_PASSPHRASE, or a
// no-echo prompt.
package commands
