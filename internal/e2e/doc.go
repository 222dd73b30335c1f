// Package e2e drives a client replica against an in-process server.
package e2e
