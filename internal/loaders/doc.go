// Package loaders provides implementations of the DocumentLoader
// interface for the corpus formats billchat ingests. Each loader knows
// how to extract plain text from one or more file extensions.
//
// Loaders are registered with the Registry at startup.
package loaders
