package cmd

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/sonido-theory/harmony"
	"github.com/RyanBlaney/sonido-theory/harmony/config"
	"github.com/RyanBlaney/sonido-theory/logging"
)

// app is the state shared by every subcommand
type app struct {
	engine *harmony.Engine

	jsonOutput  bool
	logLevel    string
	ensemble    string
	temperament int
	preferFlats bool
	maxVoices   int
}

// NewRootCommand builds the sonido-theory command tree
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sonido-theory",
		Short: "Music theory engine",
		Long: `Scales, intervals, chord naming and voice leading for tertian,
quartal, whole-tone and Japanese pentatonic harmony.

Configuration is read from SONIDO_* environment variables and a .env file
in the working directory; flags override both.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.engine != nil {
				a.engine.Close()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&a.jsonOutput, "json", false, "print results as JSON")
	flags.StringVar(&a.logLevel, "log-level", "warn", "debug, info, warn or error")
	flags.StringVar(&a.ensemble, "ensemble", "", "preset: default, choir, jazz or keyboard")
	flags.IntVar(&a.temperament, "temperament", 12, "steps per octave, 12 or 24")
	flags.BoolVar(&a.preferFlats, "flats", false, "spell accidentals as flats")
	flags.IntVar(&a.maxVoices, "voices", 4, "voices per chord when voice leading, 0 for no limit")

	root.AddCommand(
		newScaleCmd(a),
		newCircleCmd(a),
		newCustomCmd(a),
		newJingleCmd(a),
		newIntervalCmd(a),
		newTransposeCmd(a),
		newChordCmd(a),
		newInferCmd(a),
		newInScaleCmd(a),
		newResolveCmd(a),
		newModulateCmd(a),
		newProgressionCmd(a),
		newBorrowCmd(a),
		newVoiceLeadCmd(a),
		newQuartalCmd(a),
		newWholeToneCmd(a),
		newJapaneseCmd(a),
		newHybridCmd(a),
		newKeyCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newCompareCmd(a),
	)
	return root
}

// Execute runs the command line
func Execute() {
	cobra.CheckErr(NewRootCommand().Execute())
}

// setup builds the engine from the environment and the persistent flags
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("Ignoring unreadable .env file:", err)
	}

	level, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	// logs go to stderr so results stay pipeable
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), cmd.ErrOrStderr())
	logger.SetLevel(level)
	logging.SetGlobalLogger(logger)

	flags := cmd.Flags()
	lookup := func(key string) string {
		if key == config.EnvEnsemble && flags.Changed("ensemble") {
			return a.ensemble
		}
		return os.Getenv(key)
	}
	cfg, err := config.FromLookup(lookup)
	if err != nil {
		return err
	}
	if flags.Changed("temperament") {
		cfg.Temperament = a.temperament
	}
	if flags.Changed("flats") {
		cfg.PreferFlats = a.preferFlats
	}
	if flags.Changed("voices") {
		cfg.MaxVoices = a.maxVoices
	}

	a.engine, err = harmony.NewEngine(cfg)
	return err
}
