package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ttytap/internal/config"
	"ttytap/internal/mux"
	"ttytap/internal/sessionlog"
	"ttytap/internal/termstyle"
)

func newRecordCmd() *cobra.Command {
	var hud bool
	var output string
	var logPath string

	cmd := &cobra.Command{
		Use:   "record [flags] -- program [args...]",
		Short: "Run a program in a pty and record its raw output",
		Long: `record spawns the program in a pseudo-terminal sized to the current
terminal, forwards keyboard input and resize events to it, and mirrors
everything the program writes, escape sequences included, to an optional
recording file. The recording is a raw byte-for-byte copy suitable for
replay through 'ttytap filter'. Repeated runs append, never truncate.

Exit status follows the child: 0 for a clean exit, 1 for a nonzero exit,
2 when the child was killed by a signal.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("hud") {
				hud = cfg.HUD
			}
			if output == "" {
				output = cfg.RecordPath
			}
			if logPath == "" {
				logPath = cfg.LogPath
			}

			logger := sessionlog.New(logPath != "", logPath)
			defer logger.Close()

			s := &mux.Session{
				Command:    args[0],
				Args:       args[1:],
				HUD:        hud,
				RecordPath: output,
				Log:        logger,
			}
			res, err := s.Run()
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stderr, termstyle.Dim(fmt.Sprintf(
				"read %d bytes, wrote %d bytes", res.TotalRead, res.TotalWritten)))

			switch {
			case res.Signal != "":
				return &ChildExitError{
					Code:   2,
					Detail: fmt.Sprintf("%s killed by signal %s", args[0], res.Signal),
				}
			case res.ChildCode != 0:
				return &ChildExitError{
					Code:   1,
					Detail: fmt.Sprintf("%s exited with status %d", args[0], res.ChildCode),
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&hud, "hud", false, "show the live I/O statistics overlay")
	cmd.Flags().StringVarP(&output, "output", "o", "", "append raw child output to this file")
	cmd.Flags().StringVar(&logPath, "log", "", "append JSONL session events to this file")

	return cmd
}
