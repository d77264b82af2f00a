package fluentpath

import (
	"context"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/bleroy/fluentpath/await"
	"github.com/bleroy/fluentpath/seq"
)

// Set accessors derive a new Path through the sequence layer. They follow
// Chain semantics: immediate on a settled receiver, deferred to first read
// after settlement otherwise.

// Where derives the subset of paths for which pred holds.
func (p *Path) Where(pred func(string) bool) *Path {
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.Filter(p.Sequence(), pred))
	}, nil)
}

// Select derives a value by transforming every path.
func (p *Path) Select(fn func(string) string) *Path {
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.Map(p.Sequence(), fn))
	}, nil)
}

// SelectErr is Select for transforms that suspend or fail. The transform is
// scheduled asynchronously and receives a context; its error fails the
// derived value.
func (p *Path) SelectErr(fn func(context.Context, string) (string, error)) *Path {
	return p.ChainAsync(func(ctx context.Context) ([]string, error) {
		return seq.Collect(ctx, seq.MapErr(p.Sequence(), fn))
	}, nil)
}

// SelectSkip transforms every path and drops those for which fn reports
// ok false.
func (p *Path) SelectSkip(fn func(string) (string, bool)) *Path {
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.MapSkip(p.Sequence(), fn))
	}, nil)
}

// Expand maps every path to zero or more replacements and flattens the
// results into one set, preserving first-seen order.
func (p *Path) Expand(fn func(string) []string) *Path {
	return p.Chain(func() ([]string, error) {
		inners := seq.Map(p.Sequence(), func(path string) seq.Sequence[string] {
			return seq.FromSlice(fn(path))
		})
		return seq.Collect(context.Background(), seq.Flatten(inners))
	}, nil)
}

// Add derives the union of the receiver's set and the given paths. The
// additions are normalized like constructor input, so duplicates collapse.
func (p *Path) Add(paths ...string) *Path {
	added := append([]string(nil), paths...)
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.Concat(p.Sequence(), seq.FromSlice(added)))
	}, nil)
}

// Except derives the receiver's set minus the given paths, compared under
// the receiver's normalization rules.
func (p *Path) Except(paths ...string) *Path {
	excluded := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		excluded[p.opts.key(path)] = struct{}{}
	}
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.Filter(p.Sequence(), func(path string) bool {
			_, drop := excluded[p.opts.fold(path)]
			return !drop
		}))
	}, nil)
}

// MatchGlob derives the subset of paths matching a doublestar pattern
// (slash-separated, ** spans directories). An invalid pattern fails the
// derived value with doublestar.ErrBadPattern.
func (p *Path) MatchGlob(pattern string) *Path {
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.FilterErr(p.Sequence(), func(_ context.Context, path string) (bool, error) {
			return doublestar.Match(pattern, path)
		}))
	}, nil)
}

// Take derives the first n paths in iteration order.
func (p *Path) Take(n int) *Path {
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.Take(p.Sequence(), n))
	}, nil)
}

// Skip derives the set without its first n paths, in iteration order.
func (p *Path) Skip(n int) *Path {
	return p.Chain(func() ([]string, error) {
		return seq.Collect(context.Background(), seq.Skip(p.Sequence(), n))
	}, nil)
}

// Scalar accessors return awaitables: the value is available immediately on
// a settled Path, and after settlement otherwise. Each call creates a fresh
// awaitable for a single caller.

// Count returns the number of paths in the set.
func (p *Path) Count() *await.Awaitable[int] {
	return await.NewAwaitable(p.completion, func() (int, error) {
		paths, err := p.Paths()
		if err != nil {
			return 0, err
		}
		return len(paths), nil
	})
}

// First returns the first path in iteration order. It fails with
// ErrEmptySet on an empty set.
func (p *Path) First() *await.Awaitable[string] {
	return await.NewAwaitable(p.completion, func() (string, error) {
		paths, err := p.Paths()
		if err != nil {
			return "", err
		}
		if len(paths) == 0 {
			return "", ErrEmptySet
		}
		return paths[0], nil
	})
}

// Contains reports whether the set holds the given path, compared under the
// receiver's normalization rules.
func (p *Path) Contains(path string) *await.Awaitable[bool] {
	return await.NewAwaitable(p.completion, func() (bool, error) {
		keys, err := p.canonicalKeys()
		if err != nil {
			return false, err
		}
		target := p.opts.key(path)
		i := sort.SearchStrings(keys, target)
		return i < len(keys) && keys[i] == target, nil
	})
}

// All reports whether pred holds for every path. Evaluation stops at the
// first counterexample.
func (p *Path) All(pred func(string) bool) *await.Awaitable[bool] {
	return await.NewAwaitable(p.completion, func() (bool, error) {
		return seq.All(context.Background(), p.Sequence(), pred)
	})
}

// Any reports whether pred holds for at least one path. Evaluation stops at
// the first witness.
func (p *Path) Any(pred func(string) bool) *await.Awaitable[bool] {
	return await.NewAwaitable(p.completion, func() (bool, error) {
		return seq.Any(context.Background(), p.Sequence(), pred)
	})
}
