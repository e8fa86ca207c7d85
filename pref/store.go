package pref

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/pkg/host"
	"github.com/joshuapare/prefkit/pref/alloc"
	"github.com/joshuapare/prefkit/pref/commit"
	"github.com/joshuapare/prefkit/pref/dirty"
	"github.com/joshuapare/prefkit/pref/medium"
)

// Store owns one partition per medium class and commits their dirty bytes.
//
// NOT thread-safe. See the package documentation.
type Store struct {
	opts  Options
	log   *slog.Logger
	clock host.Clock

	media   map[medium.Class]medium.Medium
	parts   map[medium.Class]*partition
	classes []medium.Class // ascending

	interval     time.Duration
	sched        *commit.Scheduler
	preventWrite bool
	began        bool

	regions []*Region
	stats   Stats
}

// partition is the mirror of one medium and the state needed to commit it.
type partition struct {
	class medium.Class
	med   medium.Medium
	h     medium.Handle // nil when Open failed

	mirror    []byte
	bump      *alloc.BumpAllocator
	dirty     *dirty.Tracker
	protected medium.Range
	through   bool // write-through medium

	openErr error
	loadErr error

	rangeWrites  int
	bytesWritten int
}

// New creates a store over media. Media are not opened until Setup.
func New(opts Options, media map[medium.Class]medium.Medium) *Store {
	opts = opts.withDefaults(media)

	classes := make([]medium.Class, 0, len(media))
	for c := range media {
		classes = append(classes, c)
	}
	slices.Sort(classes)

	return &Store{
		opts:    opts,
		log:     opts.Logger,
		clock:   opts.Clock,
		media:   media,
		parts:   make(map[medium.Class]*partition, len(media)),
		classes: classes,
		sched: commit.NewScheduler(commit.Policy{
			MaxBackoff:  opts.MaxBackoff,
			MaxFailures: opts.MaxFailures,
		}, opts.Clock.Now()),
	}
}

// Begin sets the write interval and loads every medium into its mirror.
// It is PreSetup followed by Setup.
func (s *Store) Begin(interval time.Duration) {
	s.PreSetup(interval)
	s.Setup()
}

// PreSetup sets the minimum time between periodic commits.
func (s *Store) PreSetup(interval time.Duration) {
	s.interval = interval
	s.sched.SetInterval(interval, s.opts.MaxBackoff)
}

// Setup opens every medium and reads it whole into its mirror. A medium that
// cannot be read starts with a zeroed mirror; one that cannot be opened gets
// no capacity. Neither is fatal. Calling Setup again is a no-op.
func (s *Store) Setup() {
	if s.began {
		return
	}
	for _, c := range s.classes {
		s.parts[c] = s.openPartition(c, s.media[c])
	}
	s.sched.Succeeded(s.clock.Now())
	s.began = true
}

func (s *Store) openPartition(c medium.Class, m medium.Medium) *partition {
	p := &partition{
		class: c,
		med:   m,
		dirty: dirty.NewTracker(format.WordSize),
	}

	h, err := m.Open()
	if err != nil {
		p.openErr = err
		p.bump = alloc.NewBump(0)
		s.log.Warn("cannot open medium", "class", c, "medium", m.Name(), "error", err)
		return p
	}

	words := format.FloorWords(h.Size())
	p.h = h
	p.mirror = make([]byte, format.WordsToBytes(words))
	p.bump = alloc.NewBump(words)
	p.protected = medium.ProtectedRangeOf(h)
	p.through = medium.IsWriteThrough(h)

	data, err := h.Read(0, len(p.mirror))
	if err != nil {
		p.loadErr = err
		s.log.Warn("cannot load medium, starting empty", "class", c, "medium", m.Name(), "error", err)
		return p
	}
	copy(p.mirror, data)

	s.log.Debug("loaded medium", "class", c, "medium", m.Name(), "words", words)
	return p
}

// MakePreference allocates a region of lengthWords payload words tagged with
// typeTag. The region also holds one checksum word. class selects the medium;
// without it Options.DefaultClass is used.
//
// On failure (store not set up, no medium for the class, not enough space)
// the returned region is unbound: IsInitialized reports false and Save and
// Load return ErrNotInitialized. No space is consumed.
func (s *Store) MakePreference(lengthWords int, typeTag uint32, class ...medium.Class) *Region {
	c := s.opts.DefaultClass
	if len(class) > 0 {
		c = class[0]
	}

	r := &Region{
		store:       s,
		class:       c,
		offset:      -1,
		lengthWords: lengthWords,
		typeTag:     typeTag,
	}

	if err := s.bind(r); err != nil {
		s.log.Warn("cannot allocate preference",
			"class", c, "type", fmt.Sprintf("0x%08x", typeTag), "words", lengthWords, "error", err)
		return r
	}

	s.regions = append(s.regions, r)
	return r
}

func (s *Store) bind(r *Region) error {
	if !s.began {
		return ErrNotBegun
	}
	p, ok := s.parts[r.class]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownClass, r.class)
	}
	if r.lengthWords < 0 {
		return alloc.ErrNeedSmall
	}

	off, err := p.bump.Alloc(r.lengthWords + format.ChecksumWords)
	if err != nil {
		return err
	}

	start := format.WordsToBytes(off)
	end := start + format.WordsToBytes(r.lengthWords+format.ChecksumWords)
	r.offset = off
	r.data = p.mirror[start:end:end]
	return nil
}

// Loop commits dirty data when the write interval has elapsed since the
// last commit, or when the retry delay after a failed commit has elapsed.
// The commit runs on the caller's goroutine and blocks for as long as the
// medium does.
func (s *Store) Loop() {
	if !s.began || !s.isDirty() {
		return
	}
	now := s.clock.Now()
	if !s.sched.Due(now) {
		return
	}
	_ = s.commit(now)
}

// Sync commits dirty data now regardless of the write interval or the
// circuit state.
func (s *Store) Sync() error {
	if !s.began || !s.isDirty() {
		return nil
	}
	return s.commit(s.clock.Now())
}

// commit runs commitToFlash and feeds the outcome to the scheduler.
func (s *Store) commit(now time.Time) error {
	err := s.commitToFlash()
	if err != nil {
		s.stats.FailedCommits++
		opened := s.sched.Failed(now)
		s.log.Warn("commit failed",
			"failures", s.sched.Failures(), "retry_at", s.sched.RetryAt(), "error", err)
		if opened {
			s.log.Error("commits suspended until next save", "failures", s.sched.Failures())
		}
		return err
	}
	s.stats.Commits++
	s.sched.Succeeded(now)
	return nil
}

// commitToFlash writes every partition's dirty ranges to its medium and
// syncs media that were written. While write prevention is on, bytes inside
// a medium's protected range are skipped and stay dirty. A partition that
// fails keeps its unwritten ranges dirty; the others are still committed.
//
// Blocks for as long as the media do.
func (s *Store) commitToFlash() error {
	var errs []error
	for _, c := range s.classes {
		if err := s.commitPartition(s.parts[c]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrMedium, errors.Join(errs...))
	}
	return nil
}

func (s *Store) commitPartition(p *partition) error {
	if p.dirty.Empty() {
		return nil
	}
	if p.h == nil {
		return p.openErr
	}

	var hold medium.Range
	if s.preventWrite {
		hold = p.protected
	}

	res, err := p.dirty.Flush(hold, func(r dirty.Range) error {
		return p.h.Write(r.Off, p.mirror[r.Off:r.End()])
	})
	p.rangeWrites += len(res.Written)
	p.bytesWritten += res.Bytes
	s.stats.RangeWrites += len(res.Written)
	s.stats.BytesWritten += res.Bytes
	s.stats.HeldRanges += len(res.Held)
	if len(res.Held) > 0 {
		s.log.Debug("write prevention held ranges", "class", p.class, "held", res.Held)
	}
	if err != nil {
		return err
	}

	if res.Bytes == 0 {
		return nil
	}
	if syncer, ok := p.h.(medium.Syncer); ok {
		if err := syncer.Sync(); err != nil {
			for _, r := range res.Written {
				p.dirty.Add(r.Off, r.Len)
			}
			return err
		}
	}
	return nil
}

// saveInternal writes r's words from the mirror to the medium.
func (s *Store) saveInternal(r *Region) error {
	p := s.parts[r.class]
	if p.h == nil {
		return p.openErr
	}
	rng := r.byteRange()
	return p.h.Write(rng.Off, p.mirror[rng.Off:rng.End()])
}

// loadInternal reads r's words from the medium into the mirror.
func (s *Store) loadInternal(r *Region) error {
	p := s.parts[r.class]
	if p.h == nil {
		return p.openErr
	}
	rng := r.byteRange()
	data, err := p.h.Read(rng.Off, rng.Len)
	if err != nil {
		return err
	}
	copy(p.mirror[rng.Off:rng.End()], data)
	return nil
}

// markSaved records that r's mirror words changed. Write-through media are
// written now; a failed or held write-through falls back to the periodic
// commit.
func (s *Store) markSaved(r *Region) {
	p := s.parts[r.class]
	rng := r.byteRange()

	if p.through && !(s.preventWrite && rng.Intersects(p.protected)) {
		err := s.saveInternal(r)
		if err == nil {
			p.rangeWrites++
			p.bytesWritten += rng.Len
			s.stats.RangeWrites++
			s.stats.BytesWritten += rng.Len
			return
		}
		s.log.Warn("write-through failed, deferring", "class", r.class, "range", rng, "error", err)
	}

	p.dirty.Add(rng.Off, rng.Len)
}

// isDirty reports whether any partition has uncommitted bytes.
func (s *Store) isDirty() bool {
	for _, p := range s.parts {
		if !p.dirty.Empty() {
			return true
		}
	}
	return false
}

// SetPreventWrite turns write prevention on or off. While on, commits skip
// each medium's protected range (used by the bootloader during a firmware
// update); skipped bytes are written once it is turned off.
func (s *Store) SetPreventWrite(prevent bool) {
	if prevent != s.preventWrite {
		s.log.Info("write prevention changed", "prevent", prevent)
	}
	s.preventWrite = prevent
}

// IsPreventWrite reports whether write prevention is on.
func (s *Store) IsPreventWrite() bool { return s.preventWrite }

// Interval returns the write interval.
func (s *Store) Interval() time.Duration { return s.interval }

// Regions returns the bound regions in allocation order.
func (s *Store) Regions() []*Region {
	return slices.Clone(s.regions)
}

// Close releases media that hold resources. Uncommitted data is not written;
// call Sync first to keep it. Device code never closes its store.
func (s *Store) Close() error {
	var errs []error
	for _, c := range s.classes {
		p := s.parts[c]
		if p == nil || p.h == nil {
			continue
		}
		if closer, ok := p.h.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", c, err))
			}
		}
		p.h = nil
		p.openErr = medium.ErrClosed
	}
	return errors.Join(errs...)
}
