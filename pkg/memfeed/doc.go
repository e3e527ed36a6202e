// Package memfeed provides an in-memory repository cluster with a change feed.
//
// A Cluster is a set of named members sharing one change journal. Each member
// hands out a Repository that opens sessions under a service identity; every
// session exposes a Feed on which listeners register descriptors.
//
// Publish appends changes to the journal and delivers them synchronously, one
// batch per matching registration. Changes are marked External for
// registrations held by a member other than the origin:
//
//	cluster, _ := memfeed.NewCluster(memfeed.DefaultConfig(), "node-a", "node-b")
//	repo, _ := cluster.Member("node-a")
//	listener, _ := observation.NewListener(repo, desc, handler, observation.DefaultConfig())
//	_ = listener.Activate(ctx)
//
//	cluster.Publish(ctx, "node-b", "", subscription.Event{
//		Kind: subscription.KindEntityAdded,
//		Path: "/content/a",
//	})
package memfeed
