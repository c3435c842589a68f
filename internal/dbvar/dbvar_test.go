package dbvar

import "testing"

// Index/level round-trip, spec.md section 8 property 2.
func TestRoundTrip(t *testing.T) {
	const n = 8
	size := Size(n)
	for level := Level(0); uint32(level) < n; level++ {
		index := size.Index(level)
		if got := size.Level(index); got != level {
			t.Fatalf("size(%d).level(size(%d).index(%d)=%d)=%d, want %d", n, n, level, index, got, level)
		}
		if want := Index(n - uint32(level) - 1); index != want {
			t.Fatalf("size(%d).index(%d) = %d, want %d", n, level, index, want)
		}
	}
}

func TestNextLevel(t *testing.T) {
	var size Size
	for i := 0; i < 5; i++ {
		level := size.NextLevel()
		if uint32(level) != uint32(i) {
			t.Fatalf("size(%d).next_level() = %d, want %d", i, level, i)
		}
		size = size.Next()
	}
}

func TestOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range level")
		}
	}()
	Size(2).Index(5)
}
