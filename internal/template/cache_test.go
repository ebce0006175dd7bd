package template

import (
	"errors"
	"sync"
	"testing"
)

func TestCacheGetOrResolve(t *testing.T) {
	cache := NewCache()
	calls := 0
	resolve := func() (*Resolved, error) {
		calls++
		return &Resolved{Name: "spec"}, nil
	}

	for i := 0; i < 3; i++ {
		r, err := cache.GetOrResolve("spec|", resolve)
		if err != nil {
			t.Fatalf("GetOrResolve: %v", err)
		}
		if r.Name != "spec" {
			t.Errorf("Name = %q", r.Name)
		}
	}
	if calls != 1 {
		t.Errorf("resolve ran %d times, want 1", calls)
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

func TestCacheErrorNotCached(t *testing.T) {
	cache := NewCache()
	calls := 0
	failing := func() (*Resolved, error) {
		calls++
		return nil, errors.New("boom")
	}

	for i := 0; i < 2; i++ {
		if _, err := cache.GetOrResolve("bad|", failing); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 2 {
		t.Errorf("failed resolve should not be cached, ran %d times", calls)
	}
	if cache.Len() != 0 {
		t.Errorf("Len = %d, want 0", cache.Len())
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache()
	seed := func(key string, r *Resolved) {
		if _, err := cache.GetOrResolve(key, func() (*Resolved, error) { return r, nil }); err != nil {
			t.Fatalf("seed %s: %v", key, err)
		}
	}

	seed("spec|", &Resolved{Name: "spec", Chain: []string{"spec", "base"}})
	seed("plan|", &Resolved{Name: "plan", Chain: []string{"plan", "base"}, Includes: []string{"partial:footer"}})
	seed("custom|", &Resolved{Name: "custom", Chain: []string{"custom"}})

	t.Run("by chain ancestor", func(t *testing.T) {
		cache.Invalidate("base")
		if cache.Len() != 1 {
			t.Errorf("Len = %d, want only the unrelated entry left", cache.Len())
		}
	})

	seed("plan|", &Resolved{Name: "plan", Chain: []string{"plan", "base"}, Includes: []string{"partial:footer"}})

	t.Run("by include", func(t *testing.T) {
		cache.Invalidate("partial:footer")
		r, err := cache.GetOrResolve("plan|", func() (*Resolved, error) {
			return &Resolved{Name: "plan-rebuilt"}, nil
		})
		if err != nil {
			t.Fatal(err)
		}
		if r.Name != "plan-rebuilt" {
			t.Error("entry referencing invalidated include was served from cache")
		}
	})

	t.Run("by own name", func(t *testing.T) {
		cache.Invalidate("custom")
		r, _ := cache.GetOrResolve("custom|", func() (*Resolved, error) {
			return &Resolved{Name: "custom-rebuilt"}, nil
		})
		if r.Name != "custom-rebuilt" {
			t.Error("entry was served from cache after invalidation")
		}
	})
}

func TestCacheClear(t *testing.T) {
	cache := NewCache()
	cache.GetOrResolve("a|", func() (*Resolved, error) { return &Resolved{Name: "a"}, nil })
	cache.GetOrResolve("b|", func() (*Resolved, error) { return &Resolved{Name: "b"}, nil })
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len = %d after Clear", cache.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := cache.GetOrResolve("shared|", func() (*Resolved, error) {
				return &Resolved{Name: "shared"}, nil
			})
			if err != nil || r.Name != "shared" {
				t.Errorf("GetOrResolve: %v %v", r, err)
			}
		}()
	}
	wg.Wait()
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}
