package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-theory/algorithms/pitch"
	"github.com/RyanBlaney/sonido-theory/algorithms/scale"
)

func newScaleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scale ROOT [MODE]",
		Short: "Prints the notes and solfege of a scale",
		Long: `Prints the notes and solfege of a scale. MODE is any church mode,
"minor" for all three minor forms, "natural", "harmonic", "melodic",
"yo" or "in". It defaults to major.`,
		Example: `  sonido-theory scale A minor
  sonido-theory scale Eb dorian`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, mode := rootAndMode(args)
			keys, err := a.engine.Scale(root, mode)
			if err != nil {
				return err
			}
			var lines []string
			for _, k := range keys {
				lines = append(lines, keyLines(k)...)
			}
			return a.emit(cmd, keys, lines...)
		},
	}
}

func newCircleCmd(a *app) *cobra.Command {
	var steps int
	var fourths bool
	c := &cobra.Command{
		Use:   "circle [START]",
		Short: "Walks the circle of fifths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := "C"
			if len(args) == 1 {
				start = args[0]
			}
			direction := "fifths"
			if fourths {
				direction = "fourths"
			}
			notes, err := a.engine.Circle(start, direction, steps)
			if err != nil {
				return err
			}
			return a.emit(cmd, notes, names(notes))
		},
	}
	c.Flags().IntVarP(&steps, "steps", "n", 12, "number of steps to take")
	c.Flags().BoolVar(&fourths, "fourths", false, "walk by fourths instead")
	return c
}

func newCustomCmd(a *app) *cobra.Command {
	var (
		name       string
		center     int
		descending string
		solfege    string
		check      []string
	)
	c := &cobra.Command{
		Use:   "custom NOTE...",
		Short: "Defines a custom scale and checks chords against it",
		Example: `  sonido-theory custom A B C E F --name hirajoshi --check Am --check F`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := scale.CustomScaleSpec{Name: name, Center: center}
			var err error
			if spec.Ascending, err = parseNotes(args); err != nil {
				return err
			}
			if descending != "" {
				if spec.Descending, err = parseNotes(strings.Fields(descending)); err != nil {
					return err
				}
			}
			if solfege != "" {
				spec.Solfege = strings.Fields(solfege)
			}

			k, err := a.engine.DefineCustomScale(spec)
			if err != nil {
				return err
			}
			lines := keyLines(k)

			type checked struct {
				Chord    string `json:"chord"`
				Diatonic bool   `json:"diatonic"`
				Numeral  string `json:"numeral,omitempty"`
			}
			results := make([]checked, 0, len(check))
			for _, symbol := range check {
				m, err := a.engine.InScale(symbol, "", "custom")
				if err != nil {
					return err
				}
				results = append(results, checked{symbol, m.Diatonic, m.Numeral})
				lines = append(lines, fmt.Sprintf("%s: %s", symbol, verdict(m.Diatonic)))
			}
			return a.emit(cmd, map[string]any{"scale": k, "checks": results}, lines...)
		},
	}
	c.Flags().StringVar(&name, "name", "", "scale name")
	c.Flags().IntVar(&center, "center", 0, "index of the key centre among the notes")
	c.Flags().StringVar(&descending, "descending", "", "falling form, space separated")
	c.Flags().StringVar(&solfege, "solfege", "", "syllables, space separated")
	c.Flags().StringArrayVar(&check, "check", nil, "chord symbol to test, repeatable")
	return c
}

func parseNotes(args []string) ([]pitch.Pitch, error) {
	out := make([]pitch.Pitch, len(args))
	for i, s := range args {
		p, err := pitch.Parse(s)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

func verdict(diatonic bool) string {
	if diatonic {
		return "in scale"
	}
	return "not in scale"
}

func newJingleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jingle NAME ROOT [MODE]",
		Short: "Plays a named jingle in a key",
		Long: "Plays a named jingle from the tonic of a key. Available: " +
			strings.Join(scale.Jingles(), ", ") + ".",
		Example: `  sonido-theory jingle lick D dorian`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, mode := rootAndMode(args[1:])
			notes, err := a.engine.Jingle(args[0], root, mode)
			if err != nil {
				return err
			}
			return a.emit(cmd, notes, spelled(notes))
		},
	}
}
