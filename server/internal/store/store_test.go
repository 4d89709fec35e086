package store

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func result(id, kind string) Result {
	return Result{ID: id, Kind: kind, Output: map[string]float64{"value": 1}}
}

// fixedClock returns a func() time.Time that always returns t.
func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestPutAndGet(t *testing.T) {
	st := New(5 * time.Minute)
	st.Put(result("r-1", KindEOQ))

	e, ok := st.Get("r-1")
	if !ok {
		t.Fatal("Get: expected entry, got none")
	}
	if e.Result.ID != "r-1" || e.Result.Kind != KindEOQ {
		t.Errorf("Result: got %+v", e.Result)
	}
}

func TestGet_Missing(t *testing.T) {
	st := New(5 * time.Minute)
	if _, ok := st.Get("unknown"); ok {
		t.Fatal("Get on empty store: expected false, got true")
	}
}

func TestGet_StaleIsMissing(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)
	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(result("old", KindStats))

	st.now = fixedClock(base)
	if _, ok := st.Get("old"); ok {
		t.Error("Get: stale entry should be reported as missing")
	}
}

func TestPut_Overwrites(t *testing.T) {
	st := New(5 * time.Minute)
	st.Put(Result{ID: "r", Kind: KindReliability, Output: "first"})
	st.Put(Result{ID: "r", Kind: KindReliability, Output: "second"})

	e, ok := st.Get("r")
	if !ok {
		t.Fatal("Get: expected entry after two Puts")
	}
	if e.Result.Output != "second" {
		t.Errorf("Output: got %v, want second", e.Result.Output)
	}
}

func TestList_ExcludesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute)) // stale
	st.Put(result("old", KindEOQ))

	st.now = fixedClock(base) // live
	st.Put(result("new", KindEOQ))

	entries := st.List("")
	if len(entries) != 1 {
		t.Fatalf("List: got %d entries, want 1", len(entries))
	}
	if entries[0].Result.ID != "new" {
		t.Errorf("List[0].ID: got %q, want new", entries[0].Result.ID)
	}
}

func TestList_NewestFirstAndKindFilter(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)
	for i, kind := range []string{KindEOQ, KindReliability, KindEOQ, KindStats} {
		st.now = fixedClock(base.Add(time.Duration(i) * time.Second))
		st.Put(result(fmt.Sprintf("r%d", i), kind))
	}
	st.now = fixedClock(base.Add(time.Minute))

	all := st.List("")
	if len(all) != 4 || all[0].Result.ID != "r3" || all[3].Result.ID != "r0" {
		t.Errorf("List order: got %v", ids(all))
	}

	eoq := st.List(KindEOQ)
	if len(eoq) != 2 || eoq[0].Result.ID != "r2" || eoq[1].Result.ID != "r0" {
		t.Errorf("List(eoq): got %v, want [r2 r0]", ids(eoq))
	}
}

func TestCount_IncludesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(result("old", KindEOQ))

	st.now = fixedClock(base)
	st.Put(result("new", KindEOQ))

	if n := st.Count(); n != 2 {
		t.Errorf("Count: got %d, want 2", n)
	}
}

func TestEvict_RemovesStale(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base.Add(-10 * time.Minute))
	st.Put(result("old1", KindEOQ))
	st.Put(result("old2", KindStats))

	st.now = fixedClock(base)
	st.Put(result("live", KindEOQ))

	if removed := st.Evict(base); removed != 2 {
		t.Errorf("Evict: removed %d, want 2", removed)
	}
	if st.Count() != 1 {
		t.Errorf("Count after evict: got %d, want 1", st.Count())
	}
}

func TestEvict_NoOp_AllLive(t *testing.T) {
	base := time.Now()
	st := New(5 * time.Minute)

	st.now = fixedClock(base)
	st.Put(result("src", KindEOQ))

	if removed := st.Evict(base); removed != 0 {
		t.Errorf("Evict on live entry: removed %d, want 0", removed)
	}
}

func TestConcurrentMixedOps(t *testing.T) {
	st := New(5 * time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(n int) {
			defer wg.Done()
			st.Put(result(fmt.Sprintf("r-%d", n%5), KindReliability))
		}(i)
		go func() {
			defer wg.Done()
			st.List("")
		}()
		go func() {
			defer wg.Done()
			st.Get("r-1")
		}()
	}
	wg.Wait()

	if st.Count() != 5 {
		t.Errorf("Count after concurrent puts: got %d, want 5", st.Count())
	}
}

func ids(es []*Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Result.ID
	}
	return out
}
