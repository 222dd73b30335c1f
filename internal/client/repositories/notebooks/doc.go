// Package notebooks persists Notebook records of the local replica.
package notebooks
