package recommend

import (
	"math/rand/v2"
	"slices"

	"github.com/abhisek/skillpath/internal/catalog"
)

// Pick is the result of a rotation step.
type Pick struct {
	// Project is nil when no candidates remain.
	Project *catalog.Project

	// Wrapped reports that Project is the entry the current pass started
	// from: every candidate has been shown once and the caller should
	// offer generation instead of cycling again.
	Wrapped bool
}

// Done reports that the learner has completed every catalog entry.
func (p Pick) Done() bool {
	return p.Project == nil
}

// Rotation walks a candidate list round-robin from a random start. It
// holds only ids, so candidates may change between calls; positions are
// always re-resolved against the list passed in.
//
// A Rotation is not safe for concurrent use.
type Rotation struct {
	rng       *rand.Rand
	shown     []string
	passStart string
}

// NewRotation returns a rotation drawing its first pick from rng.
func NewRotation(rng *rand.Rand) *Rotation {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Rotation{rng: rng}
}

// PickInitial chooses a uniformly random candidate and starts a new pass
// with it. It returns nil for an empty list.
func (r *Rotation) PickInitial(candidates []catalog.Project) *catalog.Project {
	r.shown = r.shown[:0]
	r.passStart = ""
	if len(candidates) == 0 {
		return nil
	}

	p := candidates[r.rng.IntN(len(candidates))]
	r.shown = append(r.shown, p.ID)
	r.passStart = p.ID
	return &p
}

// PickNext returns the candidate after the last one shown. If nothing has
// been shown yet, or the last shown id is no longer a candidate, it
// starts over exactly like PickInitial.
func (r *Rotation) PickNext(candidates []catalog.Project) Pick {
	if len(r.shown) == 0 {
		return Pick{Project: r.PickInitial(candidates)}
	}

	last := r.shown[len(r.shown)-1]
	i := slices.IndexFunc(candidates, func(p catalog.Project) bool { return p.ID == last })
	if i < 0 {
		return Pick{Project: r.PickInitial(candidates)}
	}

	// The pass start was completed mid-pass: re-anchor the pass on the
	// last shown entry so the wrap is still detected.
	if !slices.ContainsFunc(candidates, func(p catalog.Project) bool { return p.ID == r.passStart }) {
		r.passStart = last
	}

	p := candidates[(i+1)%len(candidates)]
	r.shown = append(r.shown, p.ID)
	return Pick{Project: &p, Wrapped: p.ID == r.passStart}
}

// Shown returns the ids surfaced since the last restart, oldest first.
func (r *Rotation) Shown() []string {
	return slices.Clone(r.shown)
}

// Reset forgets the history so the next PickNext starts a new pass.
func (r *Rotation) Reset() {
	r.shown = r.shown[:0]
	r.passStart = ""
}
