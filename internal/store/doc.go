// Package store owns the two persisted record sets the worker writes:
//
//   - [Catalog] : the write-through set of already-downloaded tracks used
//     to skip duplicate fetches. One flat JSON file; corrupt or missing
//     state degrades to an empty catalog.
//   - [Journal] : the date-partitioned record of failed operations, one
//     file per date per kind (download, convert, refresh). Entries carry
//     the original parameters so a failure can be retried verbatim, plus
//     a retry counter that only ever increases.
//
// The worker is the single writer of both stores. The UI reads snapshot
// copies and never mutates them.
package store
