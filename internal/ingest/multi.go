package ingest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Multi combines several sources into one. Sources are read concurrently
// but fragments keep the order of the source list, so repeated runs over
// the same roots produce identical input order.
type Multi []Source

// Fragments fans out to every source and concatenates the results in
// source order. The first source error cancels the rest.
func (m Multi) Fragments(ctx context.Context) ([]Fragment, error) {
	if len(m) == 0 {
		return nil, nil
	}
	results := make([][]Fragment, len(m))
	group, ctx := errgroup.WithContext(ctx)
	for i, source := range m {
		i, source := i, source
		if source == nil {
			return nil, fmt.Errorf("ingest: nil source at index %d", i)
		}
		group.Go(func() error {
			fragments, err := source.Fragments(ctx)
			if err != nil {
				return err
			}
			results[i] = fragments
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	var combined []Fragment
	for _, fragments := range results {
		combined = append(combined, fragments...)
	}
	return combined, nil
}
