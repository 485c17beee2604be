package engine

import (
	"context"
	"fmt"
)

// ListTags returns every tag name in the registry, alphabetically.
func (e *Engine) ListTags(ctx context.Context) ([]string, error) {
	tags, err := e.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}
