package mode

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zsiec/tint/internal/filter"
)

func TestRegister_DefaultsToNone(t *testing.T) {
	assert.Equal(t, filter.None, NewRegister().Get())

	var zero Register
	assert.Equal(t, filter.None, zero.Get())
}

func TestRegister_SetThenGet(t *testing.T) {
	r := NewRegister()

	r.Set(filter.Contrast)
	assert.Equal(t, filter.Contrast, r.Get())

	for _, m := range filter.Modes() {
		r.Set(m)
		assert.Equal(t, m, r.Get())
	}
}

func TestRegister_ConcurrentSetGet(t *testing.T) {
	r := NewRegister()
	modes := filter.Modes()

	written := make(map[filter.Mode]bool, len(modes))
	for _, m := range modes {
		written[m] = true
	}

	var wg sync.WaitGroup
	observed := make(chan filter.Mode, 1000)
	for i := 0; i < 1000; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			r.Set(modes[i%len(modes)])
		}(i)
		go func() {
			defer wg.Done()
			observed <- r.Get()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("concurrent Set/Get did not finish, possible deadlock")
	}
	close(observed)

	for m := range observed {
		assert.True(t, written[m], "observed a mode that was never written: %v", m)
	}
}

func TestRegister_LastCommitWins(t *testing.T) {
	r := NewRegister()
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Set(filter.Brightness)
		}()
	}
	wg.Wait()

	r.Set(filter.Invert)
	assert.Equal(t, filter.Invert, r.Get())
}

func TestRegister_ImplementsInterfaces(t *testing.T) {
	var _ Reader = (*Register)(nil)
	var _ Writer = (*Register)(nil)
}
