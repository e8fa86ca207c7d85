package pref

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/pkg/host"
)

var _ host.Component = (*Store)(nil)

// SetupPriority sets the store up before every component that uses it.
func (s *Store) SetupPriority() float32 { return host.PriorityBus }

// DumpConfig writes a human-readable summary of the store to w.
func (s *Store) DumpConfig(w io.Writer) {
	pr := message.NewPrinter(language.English)
	st := s.Stats()

	pr.Fprintf(w, "Preferences:\n")
	pr.Fprintf(w, "  Write interval: %s\n", s.interval)
	pr.Fprintf(w, "  Prevent write: %t\n", s.preventWrite)
	pr.Fprintf(w, "  Dirty: %t\n", st.Dirty)
	pr.Fprintf(w, "  Commits: %d ok, %d failed (circuit %s, %d consecutive)\n",
		st.Commits, st.FailedCommits, st.Circuit, st.Failures)
	pr.Fprintf(w, "  Physical writes: %d (%d bytes)\n", st.RangeWrites, st.BytesWritten)

	for _, cs := range st.Classes {
		pr.Fprintf(w, "  Class %s (%s):\n", cs.Class, cs.Medium)
		if cs.Err != nil {
			pr.Fprintf(w, "    Error: %v\n", cs.Err)
		}
		pr.Fprintf(w, "    Capacity: %d words (%d bytes)\n",
			cs.CapacityWords, format.WordsToBytes(cs.CapacityWords))
		pr.Fprintf(w, "    Used: %d words in %d regions\n", cs.UsedWords, cs.Regions)
		if !cs.Protected.Empty() {
			pr.Fprintf(w, "    Protected: %s\n", cs.Protected)
		}
		if len(cs.DirtyRanges) > 0 {
			pr.Fprintf(w, "    Dirty ranges: %s\n", fmt.Sprint(cs.DirtyRanges))
		}
	}

	for _, r := range s.regions {
		fmt.Fprintf(w, "  Region %s\n", r)
	}
}

// Component adapts the store to a host runner. The runner's PreSetup call
// sets interval.
func (s *Store) Component(interval time.Duration) host.Component {
	return &component{Store: s, interval: interval}
}

type component struct {
	*Store
	interval time.Duration
}

var _ host.PreSetuper = (*component)(nil)

func (c *component) PreSetup() { c.Store.PreSetup(c.interval) }
