// Package feed models the field-service provider's task feeds.
//
// A feed is one of two independent task categories tracked for an order:
// delivery and assembly. Both are served by the same provider and share one
// record shape; they differ in the schedule type they accept and in the
// activity descriptions they keep.
//
// The package contains:
//   - Kind: the feed discriminator with its vocabulary (expected task type,
//     activity whitelist)
//   - ScheduleRecord and ActivityEvent: decoded provider records
//   - TaskEvent: the flattened per-feed unit consumed by the status classifier
//     and the timeline merger
//   - Result: the outcome of one feed call, pairing events with a feed error
//   - FeedLookupError and FeedDetailError: typed feed failures
//
// All values are request scoped. Nothing in this package is persisted.
package feed
