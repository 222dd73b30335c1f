// Package syncqueue persists the mutation queue: the ordered log of local
// CREATE, UPDATE and DELETE operations waiting to be replayed on the server.
//
// Entries are identified by an autoincrement sequence number and are always
// returned in sequence order. The queue is append-only from the point of view
// of local edits: entries are never merged, reordered or compacted, and are
// removed one by one after the server acknowledged them. Retry bookkeeping
// (attempts, next attempt time, last error, quarantine flag) is updated in
// place by the push reconciler.
package syncqueue
