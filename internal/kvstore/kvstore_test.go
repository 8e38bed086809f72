package kvstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedMemory(start time.Time) (*Memory, *time.Time) {
	current := start
	m := NewMemory()
	m.now = func() time.Time { return current }
	return m, &current
}

func TestSetGetAndExpiry(t *testing.T) {
	m, clock := newClockedMemory(time.Now())

	m.Set("otp:user@example.com", "123456", 10*time.Minute)

	value, ok := m.Get("otp:user@example.com")
	require.True(t, ok)
	assert.Equal(t, "123456", value)

	*clock = clock.Add(11 * time.Minute)

	_, ok = m.Get("otp:user@example.com")
	assert.False(t, ok)
}

func TestDeleteConsumesEntry(t *testing.T) {
	m, _ := newClockedMemory(time.Now())

	m.Set("k", "v", time.Minute)
	m.Delete("k")

	_, ok := m.Get("k")
	assert.False(t, ok)
}

func TestIncrRollingWindow(t *testing.T) {
	m, clock := newClockedMemory(time.Now())

	for i := 1; i <= 3; i++ {
		assert.Equal(t, i, m.Incr("rate:user@example.com", time.Hour))
	}

	// window expires, counter starts fresh
	*clock = clock.Add(61 * time.Minute)
	assert.Equal(t, 1, m.Incr("rate:user@example.com", time.Hour))
}

func TestPurgeDropsOnlyExpired(t *testing.T) {
	m, clock := newClockedMemory(time.Now())

	m.Set("old", "1", time.Minute)
	m.Set("fresh", "2", time.Hour)

	*clock = clock.Add(2 * time.Minute)
	m.Purge()

	_, ok := m.Get("old")
	assert.False(t, ok)
	value, ok := m.Get("fresh")
	require.True(t, ok)
	assert.Equal(t, "2", value)
}
