package topics

import (
	"context"
	"fmt"
)

// Resolver picks the topic list for a run. The first non-empty source wins:
// the explicit list, the store, the file, then the defaults (if allowed).
type Resolver struct {
	Store       Store
	File        string
	UseDefaults bool
}

func (r Resolver) Resolve(ctx context.Context, explicit []Topic) ([]Topic, error) {
	if list := Clean(explicit); len(list) > 0 {
		return list, nil
	}
	if r.Store != nil {
		list, err := r.Store.List(ctx)
		if err != nil {
			return nil, err
		}
		if list = Clean(list); len(list) > 0 {
			return list, nil
		}
	}
	if r.File != "" {
		list, err := LoadFile(r.File)
		if err != nil {
			return nil, fmt.Errorf("topics file %s: %w", r.File, err)
		}
		if len(list) > 0 {
			return list, nil
		}
	}
	if r.UseDefaults {
		return Defaults(), nil
	}
	return nil, nil
}
