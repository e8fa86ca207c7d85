package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/prefkit/pref"
)

func init() {
	rootCmd.AddCommand(newDumpCmd())
}

func newDumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Show the store's media, usage and regions",
		Long: `The dump command opens the store and prints its configuration: media,
capacity, used words, protected ranges and the allocated regions.

Example:
  prefctl dump -c device.jsonc
  prefctl dump -c device.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump()
		},
	}
}

type dumpClassJSON struct {
	Class         string `json:"class"`
	Medium        string `json:"medium"`
	CapacityWords int    `json:"capacity_words"` //nolint:tagliatelle // snake_case for output
	UsedWords     int    `json:"used_words"`     //nolint:tagliatelle // snake_case for output
	Regions       int    `json:"regions"`
	WriteThrough  bool   `json:"write_through"` //nolint:tagliatelle // snake_case for output
	Error         string `json:"error,omitempty"`
}

type dumpJSON struct {
	Interval string          `json:"interval"`
	Classes  []dumpClassJSON `json:"classes"`
	Regions  []string        `json:"regions"`
}

func runDump() error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	if !jsonOut {
		if !quiet {
			sess.store.DumpConfig(os.Stdout)
		}
		return nil
	}

	return printJSON(toDumpJSON(sess.store))
}

func toDumpJSON(s *pref.Store) dumpJSON {
	st := s.Stats()
	out := dumpJSON{Interval: s.Interval().String()}
	for _, cs := range st.Classes {
		c := dumpClassJSON{
			Class:         cs.Class.String(),
			Medium:        cs.Medium,
			CapacityWords: cs.CapacityWords,
			UsedWords:     cs.UsedWords,
			Regions:       cs.Regions,
			WriteThrough:  cs.WriteThrough,
		}
		if cs.Err != nil {
			c.Error = cs.Err.Error()
		}
		out.Classes = append(out.Classes, c)
	}
	for _, r := range s.Regions() {
		out.Regions = append(out.Regions, r.String())
	}
	return out
}
