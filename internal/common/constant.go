// Package common contains constants and sentinel errors shared by the
// GophNotes client and server.
package common

// AuthorizationHeader carries the bearer access token on API requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the token in AuthorizationHeader.
const BearerPrefix = "Bearer "

// DefaultMaxVersions is how many attachment versions pruning keeps per file.
const DefaultMaxVersions = 3
