package fluentpath

import (
	"context"

	"github.com/bleroy/fluentpath/await"
	"github.com/bleroy/fluentpath/internal/id"
	"github.com/bleroy/fluentpath/seq"
)

// The Chain family is the seam between this engine and code that performs
// actual work on paths. Each primitive derives a new Path from the receiver
// without blocking and without mutating it; previous overrides the recorded
// history parent and defaults to the receiver when nil.
//
// A receiver that settled with an error never runs resolvers or actions:
// the derived value carries the same failure.

// Chain derives a value from a synchronous resolver. On a settled receiver
// the resolver runs immediately and the result is a settled value; on a
// pending receiver the derived value shares the receiver's settlement and
// the resolver runs lazily, at most once, on first read.
func (p *Path) Chain(resolve func() ([]string, error), previous *Path) *Path {
	prev := p.orPrevious(previous)
	if !p.completion.IsSettled() {
		return p.derive(prev, p.completion, resolve, nil, "chain")
	}
	if err := p.completion.Err(); err != nil {
		return p.derive(prev, p.completion, nil, nil, "chain")
	}

	paths, err := resolve()
	if err != nil {
		return p.deriveFailed(prev, err, "chain")
	}
	return p.derive(prev, await.Settled(), nil, p.opts.normalize(paths), "chain")
}

// ChainAsync derives a value from an asynchronous resolver. The resolver is
// always scheduled, even on a settled receiver: it runs after the
// receiver's operation finishes, its result is captured, and only then does
// the derived value settle.
func (p *Path) ChainAsync(resolve func(context.Context) ([]string, error), previous *Path) *Path {
	prev := p.orPrevious(previous)
	comp := await.NewCompletion()
	next := p.derive(prev, comp, nil, nil, "chain_async")

	go func() {
		ctx := context.Background()
		if err := p.completion.Wait(ctx); err != nil {
			next.settle(comp, err)
			return
		}
		paths, err := resolve(ctx)
		if err != nil {
			next.settle(comp, err)
			return
		}
		next.resolve = func() ([]string, error) { return paths, nil }
		next.settle(comp, nil)
	}()
	return next
}

// ChainDo attaches a synchronous side effect. The derived value resolves to
// paths when non-nil, otherwise to the receiver's own set; the action never
// changes it. On a settled receiver the action runs before ChainDo returns;
// on a pending one it runs once the receiver settles.
func (p *Path) ChainDo(action func() error, paths []string, previous *Path) *Path {
	prev := p.orPrevious(previous)
	carried := p.carryResolver(paths)

	if p.completion.IsSettled() {
		if err := p.completion.Err(); err != nil {
			return p.derive(prev, p.completion, nil, nil, "chain_do")
		}
		if err := action(); err != nil {
			return p.deriveFailed(prev, err, "chain_do")
		}
		return p.derive(prev, await.Settled(), carried, nil, "chain_do")
	}

	comp := await.NewCompletion()
	next := p.derive(prev, comp, carried, nil, "chain_do")
	p.completion.OnSettled(func(err error) {
		if err != nil {
			next.settle(comp, err)
			return
		}
		next.settle(comp, action())
	})
	return next
}

// ChainDoAsync attaches an asynchronous side effect. The action is always
// scheduled and the derived value settles only after it finishes, so a
// later Await observes the effect. The path set carries through unchanged,
// or resolves to paths when non-nil.
func (p *Path) ChainDoAsync(action func(context.Context) error, paths []string, previous *Path) *Path {
	prev := p.orPrevious(previous)
	comp := await.NewCompletion()
	next := p.derive(prev, comp, p.carryResolver(paths), nil, "chain_do_async")

	go func() {
		ctx := context.Background()
		if err := p.completion.Wait(ctx); err != nil {
			next.settle(comp, err)
			return
		}
		next.settle(comp, action(ctx))
	}()
	return next
}

// ChainSequence derives a value whose set comes from a lazy sequence. The
// factory runs after the receiver settles; its sequence is recorded through
// a memoizing cache and drained exactly once.
func (p *Path) ChainSequence(resolve func(context.Context) (seq.Sequence[string], error), previous *Path) *Path {
	prev := p.orPrevious(previous)
	comp := await.NewCompletion()
	next := p.derive(prev, comp, nil, nil, "chain_sequence")

	go func() {
		ctx := context.Background()
		if err := p.completion.Wait(ctx); err != nil {
			next.settle(comp, err)
			return
		}
		src, err := resolve(ctx)
		if err != nil {
			next.settle(comp, err)
			return
		}
		next.drainInto(comp, src)
	}()
	return next
}

func (p *Path) orPrevious(previous *Path) *Path {
	if previous != nil {
		return previous
	}
	return p
}

// carryResolver resolves the derived value's set: the supplied paths when
// given, otherwise the receiver's own resolved set.
func (p *Path) carryResolver(paths []string) func() ([]string, error) {
	if paths != nil {
		supplied := append([]string(nil), paths...)
		return func() ([]string, error) { return supplied, nil }
	}
	return p.Paths
}

func (p *Path) derive(previous *Path, completion *await.Completion, resolve func() ([]string, error), resolved []string, kind string) *Path {
	next := &Path{
		id:         id.NewPathID(),
		opts:       p.opts,
		tracer:     p.tracer,
		previous:   previous,
		completion: completion,
		resolve:    resolve,
		resolved:   resolved,
	}
	p.tracer.Chained(next.id, p.id, completion.Token(), kind)
	return next
}

// deriveFailed derives a value that settled with err before it was ever
// pending, from an eagerly-run resolver or action.
func (p *Path) deriveFailed(previous *Path, err error, kind string) *Path {
	comp := await.NewCompletion()
	comp.Settle(err)
	next := p.derive(previous, comp, nil, nil, kind)
	next.tracer.Settled(next.id, comp.Token(), err)
	return next
}

// settle finishes the derived value's pending operation and traces it.
func (p *Path) settle(comp *await.Completion, err error) {
	comp.Settle(err)
	p.tracer.Settled(p.id, comp.Token(), err)
}
