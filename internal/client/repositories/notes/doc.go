// Package notes persists Note records of the local replica.
//
// Tag references and attachment summaries are embedded in the row as JSON
// arrays, mirroring the note payload exchanged with the server. Every
// row carries a sync status: "synced" rows match the server, "created" and
// "updated" rows have queued mutations that have not been acknowledged yet.
//
// The repository works over dbx.DBTX so the replica store can run it inside
// a transaction together with the sync queue.
package notes
