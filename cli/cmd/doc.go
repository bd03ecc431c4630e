// Package cmd implements the expand subcommands.
//
// Every command except init and version loads a configuration document
// through the [Session] stored in its context by [WithSession], then works
// on the resulting [lang.Config].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// SettingsIdentifier is the kong variable identifier containing the path
	// to the tool settings file.
	SettingsIdentifier = "settings"
)
