// Package corpus holds the authoritative append-only document store.
//
// The store assigns contiguous 0-based integer ids in insertion order.
// Every other retrieval structure (dense index, sparse index) is derived
// from and aligned with this corpus. There is no update or delete
// operation; the corpus only grows.
package corpus
