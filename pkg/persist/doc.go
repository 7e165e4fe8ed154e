// Package persist defines the storage port for the info service and
// its two backends: an in-memory map and a SQLite database holding
// one JSON blob per document key.
//
// The port is deliberately small: whole-document get and store plus a
// single store-wide lock held across read-modify-write sequences.
// Alternate storage media slot in behind the same interface without
// touching merge or entity logic.
package persist
