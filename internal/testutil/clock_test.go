// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"testing"
	"time"
)

func TestFakeClock_Now(t *testing.T) {
	t.Parallel()

	initial := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initial)

	if got := clock.Now(); !got.Equal(initial) {
		t.Errorf("FakeClock.Now() = %v, want %v", got, initial)
	}
}

func TestFakeClock_Now_DefaultTime(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	expected := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := clock.Now(); !got.Equal(expected) {
		t.Errorf("FakeClock.Now() with zero time = %v, want %v", got, expected)
	}
}

func TestFakeClock_Advance(t *testing.T) {
	t.Parallel()

	initial := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initial)

	clock.Advance(1 * time.Hour)

	expected := initial.Add(1 * time.Hour)
	if got := clock.Now(); !got.Equal(expected) {
		t.Errorf("After Advance(1h), Now() = %v, want %v", got, expected)
	}
}

func TestFakeClock_Set(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})
	newTime := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)

	clock.Set(newTime)

	if got := clock.Now(); !got.Equal(newTime) {
		t.Errorf("After Set(), Now() = %v, want %v", got, newTime)
	}
}

func TestFakeClock_NowAsFunc(t *testing.T) {
	t.Parallel()

	initial := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(initial)

	var now func() time.Time = clock.Now

	clock.Advance(2 * time.Minute)
	if got := now(); !got.Equal(initial.Add(2 * time.Minute)) {
		t.Errorf("now() = %v, want %v", got, initial.Add(2*time.Minute))
	}
}

func TestFakeClock_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	clock := NewFakeClock(time.Time{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			clock.Advance(1 * time.Second)
		}()
		go func() {
			defer wg.Done()
			_ = clock.Now()
		}()
	}
	wg.Wait()

	expected := time.Date(2020, 1, 1, 0, 0, 10, 0, time.UTC)
	if got := clock.Now(); !got.Equal(expected) {
		t.Errorf("after 10 concurrent Advance(1s), Now() = %v, want %v", got, expected)
	}
}
