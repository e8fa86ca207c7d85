package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	setHex    string
	setRegion regionFlags
)

func init() {
	cmd := newSetCmd()
	cmd.Flags().StringVar(&setHex, "hex", "", "Payload as hex bytes instead of words")
	setRegion.register(cmd.Flags())
	rootCmd.AddCommand(cmd)
}

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set [region] [word...]",
		Short: "Write a region",
		Long: `The set command saves a value to a region and commits it immediately.

The value is given as 32-bit words (decimal or 0x hex) or as hex bytes with
--hex. Shorter values are zero-padded.

Example:
  prefctl set -c device.jsonc boot_count 7
  prefctl set -c device.jsonc wifi --hex 0a0b0c0d
  prefctl set --type 0x1234 --words 2 42 99`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSet(args)
		},
	}
}

func runSet(args []string) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	var nameArgs, valueArgs []string
	if setRegion.words > 0 {
		valueArgs = args
	} else if len(args) > 0 {
		nameArgs, valueArgs = args[:1], args[1:]
	}

	name, r, err := resolveRegion(sess, nameArgs, &setRegion)
	if err != nil {
		return err
	}

	payload, err := parsePayload(valueArgs, setHex)
	if err != nil {
		return err
	}

	if err := r.Save(payload, true); err != nil {
		return fmt.Errorf("%s: %w", describe(name, r), err)
	}

	printVerbose("Wrote %d bytes to %s\n", len(payload), describe(name, r))
	return nil
}

// parsePayload builds a payload from word arguments or a hex string.
func parsePayload(words []string, hexStr string) ([]byte, error) {
	if hexStr != "" {
		if len(words) > 0 {
			return nil, fmt.Errorf("give words or --hex, not both")
		}
		b, err := hex.DecodeString(hexStr)
		if err != nil {
			return nil, fmt.Errorf("invalid --hex: %w", err)
		}
		return b, nil
	}

	if len(words) == 0 {
		return nil, errNoValue
	}
	var out []byte
	for _, w := range words {
		v, err := strconv.ParseUint(w, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid word %q: %w", w, err)
		}
		out = binary.LittleEndian.AppendUint32(out, uint32(v))
	}
	return out, nil
}
