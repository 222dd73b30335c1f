// Package syncer reconciles the local replica with the server.
//
// A cycle is a push followed by a pull:
//
//   - Pusher drains the mutation queue in sequence order. An entry that fails
//     stays queued with capped exponential backoff and blocks later entries
//     of the same entity for the rest of the drain, so per-entity order is
//     kept while other entities proceed. After MaxAttempts rejections the
//     entry is quarantined until requeued by hand; while the server is
//     unreachable entries only back off and are never quarantined.
//   - Puller fetches the authoritative notebooks, tags and notes and merges
//     each kind into the replica in its own transaction, leaving entities
//     with unsent local changes untouched.
//
// Syncer runs cycles on a ticker and on demand. Cycles never overlap: a
// trigger that arrives while one is running gets ErrCycleInProgress.
package syncer
