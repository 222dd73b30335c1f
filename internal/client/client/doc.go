// Package client contains the client-side building blocks that talk to the
// outside world of the replica.
//
// # Overview
//
//  1. Client, the contract of the GophNotes REST API used by the syncer and
//     the attachment service, and HTTPClient, its net/http implementation.
//     The access token is sent as a bearer header on every request.
//  2. InitDatabase and RunMigrations, which open the local SQLite replica and
//     apply the embedded goose migrations.
//
// # Error Handling
//
// HTTP status codes and transport failures are mapped to sentinel errors in
// one place (mapStatus, mapTransport): ErrUnavailable, ErrUnauthorized,
// ErrNotFound and ErrRejected. Callers match them with errors.Is; the push
// reconciler treats ErrNotFound on update and delete as success.
package client
