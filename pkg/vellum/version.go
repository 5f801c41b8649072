// Package vellum holds module-level metadata.
package vellum

// Version is the current release version.
const Version = "0.3.0"
