package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

// emit prints v as JSON with --json, otherwise the text lines
func (a *app) emit(cmd *cobra.Command, v any, lines ...string) error {
	out := cmd.OutOrStdout()
	if a.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return err
		}
	}
	return nil
}

func names(ps []pitch.Pitch) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name()
	}
	return strings.Join(out, " ")
}

func spelled(ps []pitch.Pitch) string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return strings.Join(out, " ")
}

func keyLines(k scale.Key) []string {
	lines := []string{k.String()}
	if len(k.Solfege) > 0 {
		lines = append(lines, "  solfege: "+strings.Join(k.Solfege, " "))
	}
	if len(k.DescendingSolfege) > 0 {
		lines = append(lines, "  descending: "+strings.Join(k.DescendingSolfege, " "))
	}
	if n, ok := scale.Signature(k); ok {
		sig := "  signature: " + scale.SignatureString(n)
		if n != 0 {
			sig += " (" + names(scale.SignatureAccidentals(n)) + ")"
		}
		lines = append(lines, sig)
	}
	return lines
}

// rootAndMode splits "C major" style arguments; a lone argument is a
// root in major
func rootAndMode(args []string) (string, string) {
	switch len(args) {
	case 0:
		return "", "custom"
	case 1:
		if strings.EqualFold(args[0], "custom") {
			return "", "custom"
		}
		return args[0], "major"
	}
	return args[0], strings.Join(args[1:], " ")
}

func atoi(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, s)
	}
	return n, nil
}
