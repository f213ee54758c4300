// Package cli defines the Cobra command tree for the presalesly CLI. Each
// file in this package registers one top-level command (login, list,
// create, etc.) with the root command. Commands delegate to the api,
// session and queryspec packages and only handle flag parsing, I/O
// formatting and user interaction.
package cli
