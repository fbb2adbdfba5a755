package cache

import (
	"sync"
	"testing"

	"github.com/asquebay/bird-events-service/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestBirdCacheSetGet(t *testing.T) {
	c := NewBirdCache()

	if _, ok := c.Get(1); ok {
		t.Fatal("expected miss on empty cache")
	}

	koko := model.Bird{ID: 1, Name: "Koko", Species: "Parrot", Image: "u1"}
	c.Set(koko)

	got, ok := c.Get(1)
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if diff := cmp.Diff(koko, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}
}

func TestBirdCacheAllIsOrderedByID(t *testing.T) {
	c := NewBirdCache()
	c.LoadAll([]model.Bird{
		{ID: 3, Name: "Starling"},
		{ID: 1, Name: "Chickadee"},
		{ID: 2, Name: "Grackle"},
	})

	want := []model.Bird{
		{ID: 1, Name: "Chickadee"},
		{ID: 2, Name: "Grackle"},
		{ID: 3, Name: "Starling"},
	}
	if diff := cmp.Diff(want, c.All()); diff != "" {
		t.Errorf("All mismatch (-want +got):\n%s", diff)
	}

}

func TestBirdCacheReplaceDropsMissingBirds(t *testing.T) {
	c := NewBirdCache()
	c.LoadAll([]model.Bird{{ID: 1, Name: "Old"}, {ID: 2, Name: "Grackle"}})

	c.Replace([]model.Bird{{ID: 2, Name: "Grackle"}, {ID: 5, Name: "Dove"}})

	want := []model.Bird{{ID: 2, Name: "Grackle"}, {ID: 5, Name: "Dove"}}
	if diff := cmp.Diff(want, c.All()); diff != "" {
		t.Errorf("All after Replace mismatch (-want +got):\n%s", diff)
	}
	if _, ok := c.Get(1); ok {
		t.Error("bird missing from the new set must be evicted")
	}

	c.Replace(nil)
	if got := c.All(); len(got) != 0 {
		t.Errorf("expected empty cache after Replace(nil), got %v", got)
	}
}

func TestBirdCacheConcurrentSet(t *testing.T) {
	c := NewBirdCache()

	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			c.Set(model.Bird{ID: id})
		}(i)
	}
	wg.Wait()

	if got := len(c.All()); got != 50 {
		t.Fatalf("expected 50 birds, got %d", got)
	}
}
