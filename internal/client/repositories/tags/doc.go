// Package tags persists Tag records of the local replica. Notes reference
// tags by id through their embedded tagIds list.
package tags
