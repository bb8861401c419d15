// Package domain contains the core business types for billchat:
// documents, chunks, retrievals, answers and conversation turns.
// It has no dependencies on adapters or external services.
package domain
