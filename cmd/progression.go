package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-theory/algorithms/chord"
	"github.com/RyanBlaney/sonido-theory/algorithms/voicing"
)

func newProgressionCmd(a *app) *cobra.Command {
	var style string
	c := &cobra.Command{
		Use:   "progression ROOT [MODE]",
		Short: "Suggests a chord progression in a key",
		Long: `Suggests a chord progression in a key. Styles depend on the mode:
pop, jazz and classical for major and minor, vamp for the other church
modes, drone for Yo and In, quartal everywhere.`,
		Example: `  sonido-theory progression D dorian
  sonido-theory progression C major --style jazz`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, mode := rootAndMode(args)
			chords, err := a.engine.Progression(root, mode, style)
			if err != nil {
				return err
			}
			return a.emit(cmd, chords, symbols(chords))
		},
	}
	c.Flags().StringVarP(&style, "style", "s", "", "progression style, the key's default when empty")
	return c
}

func newBorrowCmd(a *app) *cobra.Command {
	var from string
	c := &cobra.Command{
		Use:     "borrow ROOT [MODE]",
		Short:   "Lists chords a key can borrow from a parallel mode",
		Example: `  sonido-theory borrow C major --from aeolian`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, mode := rootAndMode(args)
			borrowed, err := a.engine.Borrow(root, mode, from)
			if err != nil {
				return err
			}
			lines := make([]string, len(borrowed))
			for i, b := range borrowed {
				lines[i] = fmt.Sprintf("%-8s %-6s from %s", b.Chord.Symbol(), b.Numeral, b.From)
			}
			return a.emit(cmd, borrowed, lines...)
		},
	}
	c.Flags().StringVar(&from, "from", "minor", "mode to borrow from")
	return c
}

func newVoiceLeadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "voicelead CHORD...",
		Short:   "Voices a progression with the least total motion",
		Example: `  sonido-theory voicelead Dm7 G7 Cmaj7 --voices 4`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.engine.VoiceLead(args...)
			if err != nil {
				return err
			}
			return a.emit(cmd, res, voicingLines(res)...)
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:     "export CHORD...",
		Short:   "Voice leads a progression and writes it as a MIDI file",
		Example: `  sonido-theory export C Am F G7 -o progression.mid`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			res, err := a.engine.ExportMIDI(f, args...)
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				os.Remove(output)
				return err
			}
			lines := append(voicingLines(res), "wrote "+output)
			return a.emit(cmd, res, lines...)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "progression.mid", "MIDI file to write")
	return c
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Names the chords and key of a MIDI file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			score, err := a.engine.ImportMIDI(f)
			if err != nil {
				return err
			}
			analyses, err := a.engine.AnalyzeScore(score)
			if err != nil {
				return err
			}
			key, err := a.engine.EstimateScoreKey(score)
			if err != nil {
				return err
			}

			lines := []string{fmt.Sprintf("key: %s (stability %.2f)", key.Best.Name(), key.Stability)}
			for i, an := range analyses {
				name := "?"
				if best, ok := an.Best(); ok {
					name = best.Symbol
				}
				lines = append(lines, fmt.Sprintf("%6d  %-10s %s", score.Chords[i].Tick, name, spelled(score.Chords[i].Notes)))
			}
			return a.emit(cmd, map[string]any{
				"score":    score,
				"analyses": analyses,
				"key":      key,
			}, lines...)
		},
	}
}

func symbols(chords []chord.Chord) string {
	out := make([]string, len(chords))
	for i, c := range chords {
		out[i] = c.Symbol()
	}
	return strings.Join(out, " ")
}

func voicingLines(res voicing.Result) []string {
	lines := make([]string, 0, len(res.Voicings)+len(res.Warnings)+1)
	for _, v := range res.Voicings {
		lines = append(lines, fmt.Sprintf("%-10s %-24s motion %g", v.Chord.Symbol(), spelled(v.Notes), v.Motion))
	}
	for _, w := range res.Warnings {
		lines = append(lines, "warning: "+w.String())
	}
	return append(lines, fmt.Sprintf("total motion %g", res.TotalMotion))
}
