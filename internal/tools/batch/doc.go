// Package batch reports per-message results for tools that accept many
// message IDs in one call.
//
// This package includes helpers for:
//   - Parsing parameters that accept a single ID, an array of IDs, or a
//     JSON array serialized as a string
//   - Formatting per-ID results in a consistent structure
//   - Continuing after individual failures so one bad ID never aborts
//     the rest of the batch
package batch
