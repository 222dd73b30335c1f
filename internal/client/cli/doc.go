// Package cli provides the interactive GophNotes command-line client.
//
// The REPL reads one command per line and dispatches it through a command
// table. Note, notebook and tag commands work offline against the local
// replica; attachment commands and "sync" need the server. A background
// watcher pings the server and shows online/offline in the prompt.
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
package cli
