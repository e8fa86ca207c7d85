package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/prefkit/internal/format"
	"github.com/joshuapare/prefkit/pref"
)

func init() {
	rootCmd.AddCommand(newVerifyCmd())
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify every region in the layout",
		Long: `The verify command loads every region in the config layout and checks
its checksum. A region that was never written fails the same way as a
corrupted one.

Exits non-zero if any region fails.

Example:
  prefctl verify -c device.jsonc
  prefctl verify -c device.jsonc --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify()
		},
	}
}

// Verification statuses.
const (
	statusOK      = "ok"
	statusFail    = "fail"
	statusUnbound = "unbound"
	statusMedium  = "medium-error"
)

type verifyResult struct {
	Name   string `json:"name"`
	Region string `json:"region"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func runVerify() error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	results := make([]verifyResult, 0, len(sess.regions))
	failed := 0
	for _, nr := range sess.regions {
		res := verifyResult{Name: nr.Name, Region: nr.Region.String(), Status: statusOK}

		err := nr.Load(make([]byte, format.WordsToBytes(nr.LengthWords())))
		switch {
		case err == nil:
		case errors.Is(err, pref.ErrNotInitialized):
			res.Status = statusUnbound
		case errors.Is(err, pref.ErrIntegrity):
			res.Status = statusFail
		default:
			res.Status = statusMedium
		}
		if err != nil {
			res.Error = err.Error()
			failed++
		}
		results = append(results, res)
	}

	if jsonOut {
		if err := printJSON(results); err != nil {
			return err
		}
	} else {
		for _, res := range results {
			printInfo("%-8s %s  %s\n", statusText(res.Status), nameText(res.Name), res.Region)
		}
		printVerbose("%d regions, %d failed\n", len(results), failed)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d regions", errVerifyFailed, failed, len(results))
	}
	return nil
}

func statusText(status string) string {
	switch status {
	case statusOK:
		return okText("OK")
	case statusUnbound:
		return warnText("UNBOUND")
	default:
		return failText("FAIL")
	}
}
