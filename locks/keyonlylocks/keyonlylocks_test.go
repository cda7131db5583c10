package keyonlylocks

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireIsAllOrNothing(t *testing.T) {
	var store sync.Map
	held, ok := AcquireLocks(&store, []string{"a"})
	assert.True(t, ok)
	assert.Equal(t, []string{"a"}, held)

	_, ok = AcquireLocks(&store, []string{"b", "a"})
	assert.False(t, ok)
	_, loaded := store.Load("b")
	assert.False(t, loaded, "b is rolled back")

	ReleaseLocks(&store, held)
	_, ok = AcquireLocks(&store, []string{"b", "a"})
	assert.True(t, ok)
}

func TestTryLock(t *testing.T) {
	var store sync.Map
	release, ok := TryLock(&store, "/docs/a.pdf")
	assert.True(t, ok)
	_, ok = TryLock(&store, "/docs/a.pdf")
	assert.False(t, ok)
	release()
	release2, ok := TryLock(&store, "/docs/a.pdf")
	assert.True(t, ok)
	release2()
}
