package pref

import (
	"github.com/joshuapare/prefkit/pref/commit"
	"github.com/joshuapare/prefkit/pref/medium"
)

// Stats is a snapshot of store activity since New.
type Stats struct {
	Saves             int
	Loads             int
	IntegrityFailures int

	Commits       int // successful commits
	FailedCommits int
	RangeWrites   int // physical writes issued, write-through included
	BytesWritten  int
	HeldRanges    int // ranges kept back by write prevention, per commit

	Dirty    bool
	Circuit  commit.State
	Failures int // consecutive failed commits

	Classes []ClassStats
}

// ClassStats describes one partition.
type ClassStats struct {
	Class         medium.Class
	Medium        string
	CapacityWords int
	UsedWords     int
	Regions       int
	DirtyRanges   []medium.Range
	RangeWrites   int
	BytesWritten  int
	Protected     medium.Range
	WriteThrough  bool
	Err           error // open or initial load failure
}

// Stats returns a snapshot of the store's counters.
func (s *Store) Stats() Stats {
	st := s.stats
	st.Dirty = s.isDirty()
	st.Circuit = s.sched.State()
	st.Failures = s.sched.Failures()

	for _, c := range s.classes {
		p, ok := s.parts[c]
		if !ok {
			st.Classes = append(st.Classes, ClassStats{Class: c, Medium: s.media[c].Name()})
			continue
		}
		cs := ClassStats{
			Class:         c,
			Medium:        p.med.Name(),
			CapacityWords: p.bump.Capacity(),
			UsedWords:     p.bump.Offset(),
			Regions:       p.bump.Count(),
			DirtyRanges:   p.dirty.Ranges(),
			RangeWrites:   p.rangeWrites,
			BytesWritten:  p.bytesWritten,
			Protected:     p.protected,
			WriteThrough:  p.through,
			Err:           p.openErr,
		}
		if cs.Err == nil {
			cs.Err = p.loadErr
		}
		st.Classes = append(st.Classes, cs)
	}
	return st
}
