package memkv

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringOperations(t *testing.T) {
	s := NewStore()

	assert.Empty(t, s.String("missing"))
	assert.Equal(t, "fallback", s.StringWithFallback("missing", "fallback"))

	s.SetString("key", "value")
	assert.Equal(t, "value", s.String("key"))
	assert.Equal(t, "value", s.StringWithFallback("key", "fallback"))

	// An explicitly stored empty string wins over the fallback.
	s.SetString("empty", "")
	assert.Equal(t, "", s.StringWithFallback("empty", "fallback"))
}

func TestIntOperations(t *testing.T) {
	s := NewStore()

	assert.Zero(t, s.Int("missing"))

	s.SetInt("key", 42)
	assert.Equal(t, 42, s.Int("key"))

	s.SetInt("key", 0)
	assert.Zero(t, s.Int("key"))
}

func TestBoolOperations(t *testing.T) {
	s := NewStore()

	assert.False(t, s.Bool("missing"))
	assert.True(t, s.BoolWithFallback("missing", true))

	s.SetBool("key", false)
	assert.False(t, s.BoolWithFallback("key", true))

	s.SetBool("key", true)
	assert.True(t, s.Bool("key"))
}

func TestRemoveValue(t *testing.T) {
	s := NewStore()

	s.SetString("key", "value")
	s.SetInt("key", 7)
	s.SetBool("key", true)

	s.RemoveValue("key")

	assert.Empty(t, s.String("key"))
	assert.Zero(t, s.Int("key"))
	assert.False(t, s.Bool("key"))

	// Removing an absent key is fine.
	s.RemoveValue("never-set")
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.SetInt("counter", j)
				_ = s.Int("counter")
				_ = s.StringWithFallback("label", "default")
			}
		}()
	}
	wg.Wait()
}
