// Package interactive provides the interactive command-line interface
// for treewatch.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/treewatch/treewatch-go/pkg/memfeed"
	"github.com/treewatch/treewatch-go/pkg/observation"
	"github.com/treewatch/treewatch-go/pkg/subscription"
)

// Shell publishes changes into a cluster and shows how the listener reacts.
type Shell struct {
	cluster  *memfeed.Cluster
	listener *observation.Listener
	member   string
	rl       *readline.Instance
	out      io.Writer

	// Pending batch, published by "commit"
	pending       []subscription.Event
	pendingOrigin string
}

// New creates the shell and its readline instance. Attach must be called
// before Run.
func New() (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "treewatch> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Shell{rl: rl, out: rl.Stdout()}, nil
}

// Attach binds the shell to a cluster and the listener running on member.
func (s *Shell) Attach(cluster *memfeed.Cluster, listener *observation.Listener, member string) {
	s.cluster = cluster
	s.listener = listener
	s.member = member
}

// Stdout returns a writer that properly coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run starts the interactive command loop.
func (s *Shell) Run(ctx context.Context, cancel context.CancelFunc) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}

		if !s.Execute(ctx, line) {
			fmt.Fprintln(s.out, "Exiting...")
			cancel()
			return
		}
	}
}

// Execute runs one command line. It returns false when the shell should exit.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "add", "a":
		s.cmdPublishKind(ctx, subscription.KindEntityAdded, args)

	case "prop", "p":
		s.cmdPublishKind(ctx, subscription.KindPropertyAdded, args)

	case "publish", "pub":
		s.cmdPublish(ctx, args)

	case "batch", "b":
		s.cmdBatch(args)

	case "commit", "c":
		s.cmdCommit(ctx)

	case "discard":
		s.pending = nil
		fmt.Fprintln(s.out, "Pending batch discarded")

	case "stats":
		s.cmdStats()

	case "status", "st":
		s.cmdStatus()

	case "journal", "j":
		s.cmdJournal(args)

	case "activate":
		if err := s.listener.Activate(ctx); err != nil {
			fmt.Fprintf(s.out, "Activate failed: %v\n", err)
		} else {
			fmt.Fprintln(s.out, "Listener active")
		}

	case "deactivate":
		if err := s.listener.Deactivate(ctx); err != nil {
			fmt.Fprintf(s.out, "Deactivate finished with errors: %v\n", err)
		} else {
			fmt.Fprintln(s.out, "Listener unregistered")
		}

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
treewatch Commands:
  Changes:
    add <path> [@member]              - Publish an entity addition
    prop <path> [@member]             - Publish a property addition
    publish <kind> <path> [@member]   - Publish any change kind
    batch <kind> <path> [@member]     - Queue a change for the next commit
    commit                            - Publish queued changes as one batch
    discard                           - Drop queued changes

  Listener:
    status                            - Show listener and cluster state
    stats                             - Show dispatch counters
    activate / deactivate             - Register or unregister the listener
    journal [n]                       - Show the last n published changes

  Other:
    help                              - Show this help
    quit                              - Exit

Kinds: entity_added, entity_removed, property_added, property_removed,
       property_changed, entity_moved, persist
A change published @member is external unless member is the listener's own.`)
}

func (s *Shell) cmdPublishKind(ctx context.Context, kind subscription.Kind, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(s.out, "Usage: %s <path> [@member]\n", strings.ToLower(kind.String()))
		return
	}
	s.cmdPublish(ctx, append([]string{kind.String()}, args...))
}

func (s *Shell) cmdPublish(ctx context.Context, args []string) {
	ev, origin, err := ParseChange(args, s.member)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	s.publish(ctx, origin, ev)
}

func (s *Shell) cmdBatch(args []string) {
	ev, origin, err := ParseChange(args, s.member)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if len(s.pending) > 0 && origin != s.pendingOrigin {
		fmt.Fprintf(s.out, "Error: pending batch originates on %s\n", s.pendingOrigin)
		return
	}
	s.pendingOrigin = origin
	s.pending = append(s.pending, ev)
	fmt.Fprintf(s.out, "Queued %s %s (%d pending)\n", ev.Kind, ev.Path, len(s.pending))
}

func (s *Shell) cmdCommit(ctx context.Context) {
	if len(s.pending) == 0 {
		fmt.Fprintln(s.out, "Nothing to commit")
		return
	}
	events := s.pending
	s.pending = nil
	s.publish(ctx, s.pendingOrigin, events...)
}

func (s *Shell) publish(ctx context.Context, origin string, events ...subscription.Event) {
	before := s.listener.Stats()
	delivered, err := s.cluster.Publish(ctx, origin, "", events...)
	if err != nil {
		fmt.Fprintf(s.out, "Publish failed: %v\n", err)
		return
	}
	after := s.listener.Stats()

	fmt.Fprintf(s.out, "Published %d change(s) on %s, %d batch(es) delivered\n", len(events), origin, delivered)
	if after.Batches == before.Batches {
		fmt.Fprintln(s.out, "  listener: not selected")
		return
	}
	fmt.Fprintf(s.out, "  listener: dispatched=%d ignored=%d skipped=%d aborted=%t\n",
		after.Dispatched-before.Dispatched,
		after.Ignored-before.Ignored,
		after.Skipped-before.Skipped,
		after.AbortedBatches > before.AbortedBatches)
}

func (s *Shell) cmdStats() {
	st := s.listener.Stats()
	fmt.Fprintf(s.out, "Batches:         %d\n", st.Batches)
	fmt.Fprintf(s.out, "Events:          %d\n", st.Events)
	fmt.Fprintf(s.out, "Dispatched:      %d\n", st.Dispatched)
	fmt.Fprintf(s.out, "Ignored:         %d\n", st.Ignored)
	fmt.Fprintf(s.out, "Skipped:         %d\n", st.Skipped)
	fmt.Fprintf(s.out, "Aborted batches: %d\n", st.AbortedBatches)
	fmt.Fprintf(s.out, "Errors:          %d\n", st.Errors)
}

func (s *Shell) cmdStatus() {
	desc := s.listener.Descriptor()
	fmt.Fprintf(s.out, "Listener:      %s (%s)\n", s.listener.ID(), s.listener.State())
	fmt.Fprintf(s.out, "Member:        %s\n", s.member)
	fmt.Fprintf(s.out, "Path:          %s (deep=%t)\n", desc.RootPath(), desc.Deep())
	fmt.Fprintf(s.out, "Events:        %s\n", desc.Mask())
	fmt.Fprintf(s.out, "Origin policy: %s\n", s.listener.Dispatcher().Policy())
	fmt.Fprintf(s.out, "Members:       %s\n", strings.Join(s.cluster.Members(), ", "))
	fmt.Fprintf(s.out, "Registrations: %d\n", s.cluster.Count())
}

func (s *Shell) cmdJournal(args []string) {
	n := 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			fmt.Fprintf(s.out, "Invalid count: %s\n", args[0])
			return
		}
		n = v
	}

	records := s.cluster.Journal()
	if len(records) > n {
		records = records[len(records)-n:]
	}
	if len(records) == 0 {
		fmt.Fprintln(s.out, "Journal is empty")
		return
	}
	for _, r := range records {
		fmt.Fprintf(s.out, "%4d  %-8s %-18s %s\n", r.Seq, r.Origin, r.Event.Kind, r.Event.Path)
	}
}

// ParseChange parses "<kind> <path> [@member]". Without @member the change
// originates on defaultOrigin.
func ParseChange(args []string, defaultOrigin string) (subscription.Event, string, error) {
	if len(args) < 1 {
		return subscription.Event{}, "", fmt.Errorf("usage: <kind> <path> [@member]")
	}
	kind, err := subscription.ParseKind(args[0])
	if err != nil {
		return subscription.Event{}, "", err
	}

	origin := defaultOrigin
	var path string
	for _, a := range args[1:] {
		switch {
		case strings.HasPrefix(a, "@"):
			origin = strings.TrimPrefix(a, "@")
		case path == "":
			path = a
		default:
			return subscription.Event{}, "", fmt.Errorf("unexpected argument %q", a)
		}
	}

	if kind != subscription.KindPersist {
		if path == "" {
			return subscription.Event{}, "", fmt.Errorf("%s requires a path", kind)
		}
		if err := subscription.ValidatePath(path); err != nil {
			return subscription.Event{}, "", fmt.Errorf("%w: %q", err, path)
		}
	}
	if origin == "" {
		return subscription.Event{}, "", fmt.Errorf("empty member name")
	}

	return subscription.Event{Kind: kind, Path: path}, origin, nil
}
