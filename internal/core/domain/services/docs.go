// Package services provides the pure reconciliation logic of the tracking
// service. Nothing here performs I/O or keeps state between calls.
//
// The package includes:
//   - StatusClassifier: maps one feed's task events to a single current status
//     using feed-specific transition tables, and resolves the final status of
//     an order from its local history and both feeds
//   - TimelineMerger: combines local history rows and both feeds' task events
//     into one sorted, deduplicated timeline
//
// Transition tables are plain []StatusRule and []TimelineRule values so that
// each rule can be tested and replaced on its own.
package services
