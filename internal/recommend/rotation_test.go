package recommend

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/abhisek/skillpath/internal/catalog"
)

func TestPickInitial_Empty(t *testing.T) {
	r := NewRotation(seeded(1))
	assert.Nil(t, r.PickInitial(nil))
	assert.Empty(t, r.Shown())

	pick := r.PickNext(nil)
	assert.True(t, pick.Done())
	assert.False(t, pick.Wrapped)
}

func TestPickInitial_RecordsSoleHistoryEntry(t *testing.T) {
	cands := projects(5)
	r := NewRotation(seeded(7))

	_ = r.PickNext(cands)
	_ = r.PickNext(cands)

	p := r.PickInitial(cands)
	require.NotNil(t, p)
	assert.Contains(t, ids(cands), p.ID)
	assert.Equal(t, []string{p.ID}, r.Shown())
}

func TestPickInitial_CoversEveryCandidate(t *testing.T) {
	cands := projects(4)
	r := NewRotation(seeded(42))

	seen := map[string]bool{}
	for range 400 {
		seen[r.PickInitial(cands).ID] = true
	}
	assert.Len(t, seen, 4)
}

func TestPickNext_RoundRobinAndWrap(t *testing.T) {
	cands := projects(4)
	r := NewRotation(seeded(3))

	first := r.PickInitial(cands)
	require.NotNil(t, first)
	start := indexOf(cands, first.ID)

	for k := 1; k <= 4; k++ {
		pick := r.PickNext(cands)
		require.False(t, pick.Done())
		assert.Equal(t, cands[(start+k)%4].ID, pick.Project.ID)
		assert.Equal(t, k == 4, pick.Wrapped, "call %d", k)
	}
}

func TestPickNext_LastShownRemovedRestartsLikeInitial(t *testing.T) {
	cands := projects(6)
	pcg := rand.NewPCG(11, 12)
	r := NewRotation(rand.New(pcg))

	first := r.PickInitial(cands)
	require.NotNil(t, first)

	reduced := remove(cands, first.ID)
	clone := *pcg
	fresh := NewRotation(rand.New(&clone))

	got := r.PickNext(reduced)
	want := fresh.PickInitial(reduced)

	require.NotNil(t, want)
	require.False(t, got.Done())
	assert.Equal(t, want.ID, got.Project.ID)
	assert.False(t, got.Wrapped)
	assert.Equal(t, fresh.Shown(), r.Shown())
}

func TestPickNext_PassStartRemovedStillWraps(t *testing.T) {
	cands := projects(3)
	r := NewRotation(seeded(5))

	first := r.PickInitial(cands)
	second := r.PickNext(cands)
	require.False(t, second.Wrapped)

	reduced := remove(cands, first.ID)
	third := r.PickNext(reduced)
	require.False(t, third.Wrapped)
	fourth := r.PickNext(reduced)

	assert.Equal(t, second.Project.ID, fourth.Project.ID)
	assert.True(t, fourth.Wrapped)
}

func TestEndToEnd_SingleCandidateWrapsImmediately(t *testing.T) {
	entries := []catalog.Project{{ID: "P1", Title: "T1"}, {ID: "P2", Title: "T2"}}
	cands := BuildCandidates(entries, completedKeys("P1"))
	require.Equal(t, []string{"P2"}, ids(cands))

	r := NewRotation(seeded(9))
	first := r.PickInitial(cands)
	require.NotNil(t, first)
	assert.Equal(t, "P2", first.ID)

	next := r.PickNext(cands)
	assert.Equal(t, "P2", next.Project.ID)
	assert.True(t, next.Wrapped)
}

// Any candidate list of length n: n PickNext calls from the initial pick
// visit every candidate once, and only the n-th reports a wrap.
func TestPickNext_CyclicPermutationProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 30).Draw(rt, "n")
		seed := rapid.Uint64().Draw(rt, "seed")
		cands := projects(n)

		r := NewRotation(seeded(seed))
		start := r.PickInitial(cands)
		if start == nil {
			rt.Fatalf("PickInitial returned nil for %d candidates", n)
		}

		visited := map[string]int{}
		for k := 1; k <= n; k++ {
			pick := r.PickNext(cands)
			if pick.Done() {
				rt.Fatalf("call %d: unexpected Done", k)
			}
			visited[pick.Project.ID]++
			if pick.Wrapped != (k == n) {
				rt.Fatalf("call %d of %d: wrapped = %v", k, n, pick.Wrapped)
			}
			if k == n && pick.Project.ID != start.ID {
				rt.Fatalf("n-th call returned %s, want start %s", pick.Project.ID, start.ID)
			}
		}
		if len(visited) != n {
			rt.Fatalf("visited %d distinct candidates, want %d", len(visited), n)
		}
		for id, c := range visited {
			if c != 1 {
				rt.Fatalf("%s visited %d times", id, c)
			}
		}
	})
}

func indexOf(ps []catalog.Project, id string) int {
	for i, p := range ps {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func remove(ps []catalog.Project, id string) []catalog.Project {
	var out []catalog.Project
	for _, p := range ps {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
