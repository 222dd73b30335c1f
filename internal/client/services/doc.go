// Package services contains the application services behind the GophNotes
// client REPL.
//
// Note, notebook and tag services only touch the local replica: every edit is
// written together with a mutation queue entry and reaches the server on the
// next sync cycle. The attachment service is the exception and talks to the
// server directly, because attachment bytes are never replicated locally.
package services
