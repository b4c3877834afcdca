// Package memory provides in-memory storage adapters. All state is
// session-scoped: docent intentionally persists nothing across runs.
package memory
