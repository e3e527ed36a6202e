// Package observation registers change listeners with a change feed and
// dispatches the batches the feed delivers.
//
// A Listener owns one registration. Activate logs into the Repository, obtains
// the session's Feed and subscribes the listener's Descriptor with its
// Dispatcher as the callback. Deactivate unsubscribes and then always logs the
// session out, even when unsubscribing fails.
//
// # Dispatch
//
// The Dispatcher walks each batch in delivery order. Entity and property
// additions invoke the matching Handler method; every other kind is ignored.
//
// # Cluster Origin
//
// Change feeds in a cluster deliver every change to every member, flagging
// changes made on another member as External. Handling usually writes back to
// the shared store, so by default only the originating member handles a change:
// the first External event ends the whole remaining batch (OriginAbortBatch).
// Listeners whose handling is idempotent, such as local cache invalidation, can
// select OriginSkipEvent or OriginProcessAll instead.
//
// # Errors
//
// Activation errors (ErrAuth, ErrSubscription, ErrAlreadyActive) are returned
// to the caller. Deactivation errors (ErrUnsubscribe, ErrLogout) are returned
// after cleanup has completed. Batch errors never leave OnEvents; they are
// reported through the configured loggers and counted in Stats.
package observation
