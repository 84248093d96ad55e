package jsontree

import (
	"github.com/panjf2000/ants/v2"
	"golang.org/x/sync/errgroup"
)

// ParseMany parses each element of contents into its own tree,
// concurrently. Per spec.md §5, the core is single-threaded per tree but
// concurrent work on distinct trees is safe; ParseMany is the
// demonstration of that property — each goroutine owns exactly one
// Parser over exactly one content string, so no Node is ever touched
// from two goroutines.
//
// Work is dispatched through a bounded github.com/panjf2000/ants/v2
// pool sized to maxConcurrency (0 or negative means "one goroutine per
// input, no pool"), and results are collected with
// golang.org/x/sync/errgroup, which returns the first parse failure to
// the caller. The remaining parses are not cancelled; they run to
// completion before ParseMany returns. On any failure the partial
// results already produced are discarded (their Nodes are simply
// dropped; there is nothing to Delete since a failed Parse never
// returns a tree).
func ParseMany(contents []string, maxConcurrency int, opts ...ParseOption) ([]*Node, error) {
	results := make([]*Node, len(contents))

	if maxConcurrency <= 0 {
		var g errgroup.Group
		for i, content := range contents {
			i, content := i, content
			g.Go(func() error {
				node, err := Parse(content, opts...)
				if err != nil {
					return err
				}
				results[i] = node
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	pool, err := ants.NewPool(maxConcurrency)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var g errgroup.Group
	for i, content := range contents {
		i, content := i, content
		g.Go(func() error {
			done := make(chan error, 1)
			submitErr := pool.Submit(func() {
				node, perr := Parse(content, opts...)
				if perr != nil {
					done <- perr
					return
				}
				results[i] = node
				done <- nil
			})
			if submitErr != nil {
				return submitErr
			}
			return <-done
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// PrintMany is ParseMany's counterpart for serialization: it prints each
// of nodes concurrently under the same pooling and error discipline
// (first error returned, no cancellation, partial results discarded),
// relying on the same §5 guarantee — each goroutine prints exactly one
// tree that no other goroutine touches.
func PrintMany(nodes []*Node, maxConcurrency int, opts ...PrintOption) ([]string, error) {
	results := make([]string, len(nodes))

	if maxConcurrency <= 0 {
		var g errgroup.Group
		for i, node := range nodes {
			i, node := i, node
			g.Go(func() error {
				out, err := Print(node, opts...)
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return results, nil
	}

	pool, err := ants.NewPool(maxConcurrency)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var g errgroup.Group
	for i, node := range nodes {
		i, node := i, node
		g.Go(func() error {
			done := make(chan error, 1)
			submitErr := pool.Submit(func() {
				out, perr := Print(node, opts...)
				if perr != nil {
					done <- perr
					return
				}
				results[i] = out
				done <- nil
			})
			if submitErr != nil {
				return submitErr
			}
			return <-done
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
