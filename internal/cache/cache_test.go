package cache

import (
	"fmt"
	"sync"
	"testing"
)

type cachedRecipe struct {
	ID    string
	Title string
}

func TestCacheBasicOperations(t *testing.T) {
	c := NewCache[string, *cachedRecipe]()

	t.Run("Set and Get", func(t *testing.T) {
		c.Set("rec_1", &cachedRecipe{ID: "rec_1", Title: "Pancakes"})

		got, ok := c.Get("rec_1")
		if !ok {
			t.Fatal("expected cache hit")
		}
		if got.Title != "Pancakes" {
			t.Errorf("Title = %q", got.Title)
		}
	})

	t.Run("Miss", func(t *testing.T) {
		if _, ok := c.Get("rec_404"); ok {
			t.Error("expected cache miss")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		c.Set("rec_1", &cachedRecipe{ID: "rec_1", Title: "Pancakes Deluxe"})

		got, _ := c.Get("rec_1")
		if got.Title != "Pancakes Deluxe" {
			t.Errorf("Title = %q", got.Title)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c.Delete("rec_1")
		if _, ok := c.Get("rec_1"); ok {
			t.Error("expected entry gone after delete")
		}
		// Deleting again is a no-op.
		c.Delete("rec_1")
	})
}

func TestCacheSetTo(t *testing.T) {
	c := NewCache[string, string]()
	c.Set("old", "value")

	c.SetTo(map[string]string{"a": "1", "b": "2"})

	if _, ok := c.Get("old"); ok {
		t.Error("SetTo should replace previous contents")
	}
	if got, _ := c.Get("a"); got != "1" {
		t.Errorf("Get(a) = %q", got)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheClear(t *testing.T) {
	c := NewCache[string, int]()
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear", c.Len())
	}
}

func TestCacheConcurrency(t *testing.T) {
	c := NewCache[string, int]()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Set(fmt.Sprintf("key_%d", n%10), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			c.Get(fmt.Sprintf("key_%d", n%10))
		}(i)
	}
	wg.Wait()

	if c.Len() > 10 {
		t.Errorf("Len() = %d, want at most 10", c.Len())
	}
}

func TestRenderedMarkdownCache(t *testing.T) {
	defer ClearRenderedMarkdownCache()

	SetRenderedMarkdown("hash1", "gruvbox", []byte("<p>body</p>"), "extra")

	t.Run("Hit", func(t *testing.T) {
		got, ok := GetRenderedMarkdown("hash1", "gruvbox")
		if !ok {
			t.Fatal("expected cache hit")
		}
		if string(got.HTML) != "<p>body</p>" || got.Extra != "extra" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("Theme is part of the key", func(t *testing.T) {
		if _, ok := GetRenderedMarkdown("hash1", "catppuccin-latte"); ok {
			t.Error("expected miss for a different syntax theme")
		}
	})

	t.Run("Hash is part of the key", func(t *testing.T) {
		if _, ok := GetRenderedMarkdown("hash2", "gruvbox"); ok {
			t.Error("expected miss for a different body hash")
		}
	})
}

func TestStaticHashCache(t *testing.T) {
	SetStaticHash("/static/style.css", "abc123")

	hash, ok := GetStaticHash("/static/style.css")
	if !ok || hash != "abc123" {
		t.Errorf("GetStaticHash() = %q, %v", hash, ok)
	}

	if _, ok := GetStaticHash("/static/missing.css"); ok {
		t.Error("expected miss for unknown path")
	}
}
