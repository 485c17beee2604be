package store

import (
	"context"
	"sync"
	"testing"
)

func TestEnsureTag_CreatesOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.EnsureTag(ctx, "dragons")
	if err != nil {
		t.Fatalf("EnsureTag() failed: %v", err)
	}

	second, err := s.EnsureTag(ctx, "dragons")
	if err != nil {
		t.Fatalf("second EnsureTag() failed: %v", err)
	}

	if first.ID != second.ID {
		t.Errorf("EnsureTag returned different ids for same name: %d != %d", first.ID, second.ID)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tags WHERE name = 'dragons'").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 tag row, got %d", count)
	}
}

func TestEnsureTag_ConcurrentCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const callers = 16
	ids := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		i := i
		go func() {
			defer wg.Done()
			tag, err := s.EnsureTag(ctx, "training")
			ids[i] = tag.ID
			errs[i] = err
		}()
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d failed: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Errorf("caller %d got id %d, caller 0 got %d", i, ids[i], ids[0])
		}
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM tags WHERE name = 'training'").Scan(&count); err != nil {
		t.Fatalf("count query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 tag row after %d racing callers, got %d", callers, count)
	}
}

func TestListTags_EmptyAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags() failed: %v", err)
	}
	if tags == nil {
		t.Error("ListTags should return empty slice, not nil")
	}
	if len(tags) != 0 {
		t.Errorf("expected no tags, got %v", tags)
	}

	for _, name := range []string{"zebra", "alpha", "midway"} {
		if _, err := s.EnsureTag(ctx, name); err != nil {
			t.Fatalf("EnsureTag(%q) failed: %v", name, err)
		}
	}

	tags, err = s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags() failed: %v", err)
	}
	want := []string{"alpha", "midway", "zebra"}
	if len(tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}
