package clock

import (
	"testing"
	"time"
)

func TestFixed(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	c := NewFixed(start)

	if !c.Now().Equal(start) {
		t.Errorf("expected %v, got %v", start, c.Now())
	}

	c.Advance(90 * time.Second)
	if got := c.Now().Sub(start); got != 90*time.Second {
		t.Errorf("expected clock to advance 90s, moved %v", got)
	}

	later := start.Add(time.Hour)
	c.Set(later)
	if !c.Now().Equal(later) {
		t.Errorf("expected %v after Set, got %v", later, c.Now())
	}
}

func TestSystem(t *testing.T) {
	var c Clock = System{}

	before := time.Now()
	got := c.Now()
	if got.Before(before) {
		t.Errorf("system clock went backwards: %v < %v", got, before)
	}
}
