package rigid

import "testing"

func TestArenaAllocFreeIsNoopOnCount(t *testing.T) {
	a := NewArena[int](0, 4)
	h, err := a.Alloc()
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if a.Count() != 1 {
		t.Fatalf("count = %d, want 1", a.Count())
	}
	if err := a.Free(h); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if a.Count() != 0 {
		t.Fatalf("count = %d, want 0", a.Count())
	}
}

func TestArenaCapacityExceeded(t *testing.T) {
	a := NewArena[int](0, 2)
	if _, err := a.Alloc(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Alloc(); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Alloc(); err != ErrCapacityExceeded {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}
}

func TestArenaStaleHandleAfterFree(t *testing.T) {
	a := NewArena[int](0, 2)
	h, _ := a.Alloc()
	if err := a.Free(h); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Get(h); err != ErrStaleHandle {
		t.Fatalf("got %v, want ErrStaleHandle", err)
	}
	if err := a.Free(h); err != ErrStaleHandle {
		t.Fatalf("double free: got %v, want ErrStaleHandle", err)
	}
}

func TestArenaForeignHandleRejected(t *testing.T) {
	a := NewArena[int](0, 2)
	b := NewArena[int](1, 2)
	h, _ := a.Alloc()
	if _, err := b.Get(h); err != ErrStaleHandle {
		t.Fatalf("got %v, want ErrStaleHandle", err)
	}
}

// TestArenaDefrag checks that after allocating 10 bodies and freeing body
// 3 (0-indexed 2), the remaining 9 are visited with body 10 (index 9)
// repacked into slot 2, and its original handle still resolves.
func TestArenaDefrag(t *testing.T) {
	a := NewArena[int](0, 10)
	handles := make([]Handle, 10)
	for i := 0; i < 10; i++ {
		h, err := a.Alloc()
		if err != nil {
			t.Fatal(err)
		}
		handles[i] = h
		v, _ := a.Get(h)
		*v = i
	}

	freedIdx := 2 // "body 3"
	lastIdx := 9  // "body 10"

	if err := a.Free(handles[freedIdx]); err != nil {
		t.Fatal(err)
	}

	if a.Count() != 9 {
		t.Fatalf("count = %d, want 9", a.Count())
	}

	seen := map[int]bool{}
	for _, v := range a.IterActive() {
		seen[v] = true
	}
	for i := 0; i < 10; i++ {
		if i == freedIdx {
			if seen[i] {
				t.Fatalf("freed record %d still visited", i)
			}
			continue
		}
		if !seen[i] {
			t.Fatalf("live record %d not visited", i)
		}
	}

	if got := a.IterActive()[freedIdx]; got != lastIdx {
		t.Fatalf("slot %d holds %d after free, want %d", freedIdx, got, lastIdx)
	}

	v, err := a.Get(handles[lastIdx])
	if err != nil {
		t.Fatalf("handle to moved record went stale: %v", err)
	}
	if *v != lastIdx {
		t.Fatalf("moved record value = %d, want %d", *v, lastIdx)
	}
}

func TestArenaHandleAtRoundTrips(t *testing.T) {
	a := NewArena[int](0, 3)
	var handles []Handle
	for i := 0; i < 3; i++ {
		h, _ := a.Alloc()
		v, _ := a.Get(h)
		*v = i
		handles = append(handles, h)
	}
	for i := 0; i < a.Count(); i++ {
		h := a.HandleAt(i)
		v, err := a.Get(h)
		if err != nil {
			t.Fatalf("HandleAt(%d): %v", i, err)
		}
		if *v != a.IterActive()[i] {
			t.Fatalf("HandleAt(%d) resolved to wrong record", i)
		}
	}
}
