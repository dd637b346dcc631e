// Package store provides durable document storage for the session engine.
//
// # Architecture
//
// Storage is a single interface, Backend, holding opaque payloads under
// string keys. The session package serialises the whole session document
// and writes it under one fixed key; there are no partial updates.
//
// Implementations:
//
//   - SQLiteStore: modernc.org/sqlite, one row per key in the documents table
//   - MockStore: in-memory, with write-failure injection for tests
//
// # Quota
//
// Both implementations accept a byte quota. A Put whose payload exceeds it
// fails with ErrQuotaExceeded and leaves the previous payload untouched.
// The session persister reacts by dropping inline media and retrying once.
//
// # SQLite Configuration
//
// File databases use WAL mode:
//
//	PRAGMA journal_mode=WAL;
//
// Database file locations:
//
//   - Default: ~/.local/share/aloka/session.db
//   - Testing: :memory: (in-memory database)
//
// # Error Handling
//
//   - ErrNotFound: nothing stored under the key
//   - ErrQuotaExceeded: payload larger than the quota
//
// All methods accept context.Context for cancellation support.
package store
