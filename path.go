package fluentpath

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
	"sync"

	"github.com/bleroy/fluentpath/await"
	"github.com/bleroy/fluentpath/internal/id"
	"github.com/bleroy/fluentpath/internal/trace"
	"github.com/bleroy/fluentpath/seq"
)

// Path is an immutable set of path strings plus the history that produced
// it. A value is "settled" once its pending operation has finished; until
// then every read except Await fails with ErrPendingOperation.
//
// Path values are safe for concurrent use. Derivation (the Chain family and
// the set accessors) returns a new value and never mutates the receiver.
type Path struct {
	id         string
	opts       Options
	tracer     *trace.Tracer
	previous   *Path // nil only on the empty sentinel
	completion *await.Completion

	resolve     func() ([]string, error)
	resolveOnce sync.Once
	resolved    []string
	resolveErr  error

	keysOnce sync.Once
	keys     []string // sorted canonical keys, built after resolution
}

// New constructs a settled Path from raw path strings under default
// options. The input is normalized into a set; see Options for the rules.
func New(paths ...string) *Path {
	return NewWith(DefaultOptions(), paths...)
}

// NewWith is New with explicit options.
func NewWith(opts Options, paths ...string) *Path {
	opts = opts.withDefaults()
	p := &Path{
		id:         id.NewPathID(),
		opts:       opts,
		tracer:     trace.New(opts.Logger),
		previous:   Empty(),
		completion: await.Settled(),
		resolved:   opts.normalize(paths),
	}
	p.tracer.Created(p.id, len(p.resolved))
	return p
}

var (
	emptyOnce sync.Once
	emptyPath *Path
)

// Empty returns the canonical empty value: settled, no paths, and its own
// previous, so history walks always terminate on it.
func Empty() *Path {
	emptyOnce.Do(func() {
		emptyPath = &Path{
			id:         id.NewPathID(),
			opts:       DefaultOptions().withDefaults(),
			tracer:     trace.Nop(),
			completion: await.Settled(),
			resolved:   []string{},
		}
	})
	return emptyPath
}

// FromSequence constructs a Path by draining a lazy sequence under default
// options. The drain runs asynchronously; the returned value settles when
// the sequence ends. The sequence is consumed exactly once.
func FromSequence(src seq.Sequence[string]) *Path {
	return FromSequenceWith(DefaultOptions(), src)
}

// FromSequenceWith is FromSequence with explicit options.
func FromSequenceWith(opts Options, src seq.Sequence[string]) *Path {
	opts = opts.withDefaults()
	comp := await.NewCompletion()
	p := &Path{
		id:         id.NewPathID(),
		opts:       opts,
		tracer:     trace.New(opts.Logger),
		previous:   Empty(),
		completion: comp,
	}
	p.tracer.Chained(p.id, p.previous.id, comp.Token(), "from_sequence")
	go p.drainInto(comp, src)
	return p
}

// drainInto records src through a memoizing cache, parks the items for the
// resolver, and settles comp.
func (p *Path) drainInto(comp *await.Completion, src seq.Sequence[string]) {
	cached := seq.NewCached(src)
	it, err := cached.Iterate()
	if err != nil {
		p.settle(comp, err)
		return
	}
	items, err := seq.Collect(context.Background(), it)
	if err != nil {
		p.settle(comp, err)
		return
	}
	p.resolve = func() ([]string, error) { return items, nil }
	p.settle(comp, nil)
}

// ID returns the value's identifier, used in traces and error messages.
func (p *Path) ID() string {
	return p.id
}

// Options returns the options the value was built with. Derived values
// inherit them.
func (p *Path) Options() Options {
	return p.opts
}

// Previous returns the value this one was derived from. The empty sentinel
// is its own previous.
func (p *Path) Previous() *Path {
	if p.previous == nil {
		return Empty()
	}
	return p.previous
}

// Completion returns the handle of the pending operation. It is settled
// for values that were complete at construction.
func (p *Path) Completion() *await.Completion {
	return p.completion
}

// Settled reports whether the pending operation has finished.
func (p *Path) Settled() bool {
	return p.completion.IsSettled()
}

// Await blocks until the pending operation settles and the path set is
// resolved, returning the receiver for fluent continuation. Cancellation
// of ctx interrupts the wait with the context's error.
func (p *Path) Await(ctx context.Context) (*Path, error) {
	if err := p.completion.Wait(ctx); err != nil {
		return nil, err
	}
	if _, err := p.Paths(); err != nil {
		return nil, err
	}
	return p, nil
}

// Paths returns the resolved path set in iteration order. It fails with
// ErrPendingOperation until the pending operation settles; afterwards the
// resolver runs once and its result is memoized.
func (p *Path) Paths() ([]string, error) {
	if !p.completion.IsSettled() {
		return nil, pendingErr(p.id)
	}
	if err := p.completion.Err(); err != nil {
		return nil, err
	}
	p.resolveOnce.Do(p.runResolver)
	if p.resolveErr != nil {
		return nil, p.resolveErr
	}
	return append([]string(nil), p.resolved...), nil
}

func (p *Path) runResolver() {
	if p.resolve == nil {
		return
	}
	paths, err := p.resolve()
	if err != nil {
		p.resolveErr = err
	} else {
		p.resolved = p.opts.normalize(paths)
	}
	p.tracer.Resolved(p.id, len(p.resolved), p.resolveErr)
}

// Sequence returns a lazy view over the path set. The view is created per
// call and consumed by a single caller; pulling it before the pending
// operation settles fails with ErrPendingOperation.
func (p *Path) Sequence() seq.Sequence[string] {
	view := seq.Deferred(func(context.Context) (seq.Sequence[string], error) {
		paths, err := p.Paths()
		if err != nil {
			return nil, err
		}
		return seq.FromSlice(paths), nil
	})
	if p.tracer.Enabled() {
		view = seq.Tap(view, func(path string) { p.tracer.Yielded(p.id, path) })
	}
	return view
}

// Equal reports set equality with other under each value's configured case
// folding, ignoring order and duplicates. Both values must be settled.
func (p *Path) Equal(other *Path) (bool, error) {
	a, err := p.canonicalKeys()
	if err != nil {
		return false, err
	}
	b, err := other.canonicalKeys()
	if err != nil {
		return false, err
	}
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		if a[i] != b[i] {
			return false, nil
		}
	}
	return true, nil
}

// Hash returns a stable digest of the canonical path set. Values that
// compare Equal hash identically, regardless of input order, duplicates,
// or trailing separators.
func (p *Path) Hash() (string, error) {
	keys, err := p.canonicalKeys()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(strings.Join(keys, "|")))
	return hex.EncodeToString(sum[:]), nil
}

func (p *Path) canonicalKeys() ([]string, error) {
	if _, err := p.Paths(); err != nil {
		return nil, err
	}
	p.keysOnce.Do(func() {
		keys := make([]string, len(p.resolved))
		for i, path := range p.resolved {
			keys[i] = p.opts.fold(path)
		}
		sort.Strings(keys)
		p.keys = keys
	})
	return p.keys, nil
}

// String renders the value for diagnostics: the joined set when settled, a
// placeholder while pending or after a failure. It never blocks.
func (p *Path) String() string {
	if !p.completion.IsSettled() {
		return "<pending " + p.id + ">"
	}
	paths, err := p.Paths()
	if err != nil {
		return "<failed " + p.id + ">"
	}
	return strings.Join(paths, ", ")
}
