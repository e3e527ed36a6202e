// Package subscription defines what a change listener subscribes to and what it
// receives.
//
// A Descriptor is the immutable selection a listener registers with a change
// feed: an event mask, the subtree root, whether descendants are included, whether
// events from the registering session are suppressed, and optional allowlists of
// entity IDs and entity types.
//
// # Event Kinds
//
// Every delivered Event carries exactly one Kind. The bitmask form (EventMask)
// only exists on the Descriptor side, where it selects a union of kinds:
//
//	mask := subscription.MaskOf(subscription.KindEntityAdded, subscription.KindPropertyAdded)
//	mask.Has(subscription.KindEntityAdded) // true
//
// # Path Matching
//
// Paths are absolute and slash-separated. A deep descriptor rooted at /content
// matches /content and everything below it. A shallow descriptor matches only
// events whose parent path is the root itself, so /content/a matches but
// /content/a/b does not.
//
// # Batches
//
// Events are delivered in batches through an Iterator. A batch is ordered,
// finite and cannot be restarted; Next returns io.EOF once it is drained.
package subscription
