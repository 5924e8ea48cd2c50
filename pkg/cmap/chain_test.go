package cmap

import "testing"

func TestBucket_PutAppendsAtTail(t *testing.T) {
	cb := trackedCallbacks(newReleases(), Murmur3String)
	var b bucket[string, string]

	for _, k := range []string{"a", "b", "c"} {
		if b.put(k, k, &cb) {
			t.Errorf("put(%q) reported replace on a new key", k)
		}
	}

	var got []string
	for e := b.head; e != nil; e = e.next {
		got = append(got, e.key)
	}
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("chain = %v, want [a b c]", got)
	}
	if b.size != 3 {
		t.Errorf("size = %d, want 3", b.size)
	}
}

func TestBucket_PutReplacesInPlace(t *testing.T) {
	r := newReleases()
	cb := trackedCallbacks(r, Murmur3String)
	var b bucket[string, string]

	b.put("a", "1", &cb)
	b.put("b", "2", &cb)
	if !b.put("a", "3", &cb) {
		t.Fatal("put(a) did not report replace")
	}

	if b.head.key != "a" || b.head.value != "3" {
		t.Errorf("head = (%q, %q), want (a, 3)", b.head.key, b.head.value)
	}
	if b.size != 2 {
		t.Errorf("size = %d, want 2", b.size)
	}
	if r.valueCount("1") != 1 {
		t.Errorf("old value released %d times, want 1", r.valueCount("1"))
	}
}

func TestBucket_RemoveOnEmpty(t *testing.T) {
	cb := trackedCallbacks(newReleases(), Murmur3String)
	var b bucket[string, string]

	if b.remove("a", &cb) {
		t.Error("remove on empty bucket reported success")
	}
}

func TestBucket_Drain(t *testing.T) {
	r := newReleases()
	cb := trackedCallbacks(r, Murmur3String)
	var b bucket[string, string]

	b.put("a", "1", &cb)
	b.put("b", "2", &cb)

	if n := b.drain(&cb); n != 2 {
		t.Errorf("drain() = %d, want 2", n)
	}
	if b.head != nil || b.size != 0 {
		t.Error("bucket not empty after drain")
	}
	if keys, values := r.total(); keys != 2 || values != 2 {
		t.Errorf("releases = (%d, %d), want (2, 2)", keys, values)
	}
}

func TestBucket_SnapshotIsCopy(t *testing.T) {
	cb := trackedCallbacks(newReleases(), Murmur3String)
	var b bucket[string, string]
	b.put("a", "1", &cb)

	snap := b.snapshot()
	snap[0].Value = "changed"

	if b.head.value != "1" {
		t.Error("snapshot shares storage with the chain")
	}
	if (&bucket[string, string]{}).snapshot() != nil {
		t.Error("snapshot of empty bucket should be nil")
	}
}
