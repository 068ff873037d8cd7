package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rapidmidiex/lambvoice"
	"github.com/rapidmidiex/lambvoice/config"
	"github.com/rapidmidiex/lambvoice/scale"
)

var (
	cfg          = config.Default()
	rootRounding string
	noAudio      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lambvoice",
	Short: "Terminal pitch controller for a small bank of synth voices",
	Long: `lambvoice drives up to four oscillator voices from the terminal.
Each voice has a pitch knob that snaps to the selected scale, or
sweeps continuously in free mode.

Examples:
  lambvoice --scale aeolian --root 2
  lambvoice --voices 2 --ceiling 8372 --log debug.log
  lambvoice --no-audio --server ws://localhost:8080/ws`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	f.IntVarP(&cfg.Voices, "voices", "n", cfg.Voices, fmt.Sprintf("number of voices (1-%d)", config.MaxVoices))
	f.Float64Var(&cfg.Ceiling, "ceiling", cfg.Ceiling, "highest free-mode frequency in Hz")
	f.StringVar(&rootRounding, "root-rounding", "round", "how a fractional root is applied in scaled mode (round|truncate)")
	f.StringVarP(&cfg.Scale, "scale", "s", cfg.Scale, fmt.Sprintf("initial scale, one of %v", scale.Names()))
	f.Float64VarP(&cfg.Root, "root", "r", cfg.Root, "initial root in semitones above C (0-11)")
	f.IntVar(&cfg.SampleRate, "sample-rate", cfg.SampleRate, "audio sample rate")
	f.BoolVar(&noAudio, "no-audio", false, "do not open the audio device")
	f.StringVar(&cfg.Server, "server", "", "websocket URL to mirror pitches to")
	f.StringVar(&cfg.LogFile, "log", "", "write debug logs to this file")
}

func run(cmd *cobra.Command, args []string) error {
	r, err := config.ParseRounding(rootRounding)
	if err != nil {
		return err
	}
	cfg.RootRounding = r
	cfg.Audio = !noAudio

	if err := cfg.Validate(); err != nil {
		return err
	}
	return lambvoice.Run(cfg)
}
