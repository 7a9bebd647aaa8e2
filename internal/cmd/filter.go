package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ttytap/internal/ansi"
	"ttytap/internal/ansifilter"
	"ttytap/internal/bytebuf"
	"ttytap/internal/config"
	"ttytap/internal/sessionlog"
)

func newFilterCmd() *cobra.Command {
	var all bool
	var frames int
	var pause bool

	cmd := &cobra.Command{
		Use:   "filter [flags] [file]",
		Short: "Filter ANSI escape sequences from a recording or stream",
		Long: `filter reads a recording (or standard input) and removes escape
sequences. The default mode drops query, status and mode-setting
sequences while keeping colors, cursor movement and the
synchronized-update markers, so the result replays cleanly; --all strips
every sequence, leaving text only.

Erase-in-display sequences delimit frames; --frames stops the run after
the given count.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			input := cmd.InOrStdin()
			name := "stdin"
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				input = f
				name = args[0]
			} else if pause {
				return errors.New("--pause requires a named input file, not stdin")
			}

			mode := ansifilter.ModeDefault
			modeName := "default"
			if all {
				mode = ansifilter.ModeStripAll
				modeName = "all"
			}

			var lastFrame *bytebuf.Buffer
			if pause {
				lastFrame = bytebuf.New(cfg.BufferSize)
			}

			logger := sessionlog.New(cfg.LogPath != "", cfg.LogPath)
			defer logger.Close()

			stats, err := ansifilter.Stream(input, cmd.OutOrStdout(), ansifilter.StreamOptions{
				Mode:       mode,
				FrameLimit: frames,
				BufSize:    cfg.BufferSize,
				LastFrame:  lastFrame,
			})
			logger.FilterRun(name, modeName, stats.Frames, stats.Read, stats.Written)
			if err != nil {
				return fmt.Errorf("filter %s: %w", name, err)
			}

			if pause {
				return pauseAtEnd(cmd.OutOrStdout(), lastFrame)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "strip every escape sequence, keeping text only")
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "stop after this many frames (erase-display sequences)")
	cmd.Flags().BoolVarP(&pause, "pause", "p", false, "re-render the last frame and wait for a keypress")

	return cmd
}

// pauseAtEnd redraws the final frame and blocks until a key is pressed.
// Ctrl-C or Ctrl-\ aborts instead of exiting cleanly.
func pauseAtEnd(w io.Writer, lastFrame *bytebuf.Buffer) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("--pause needs a terminal to wait for a keypress")
	}

	if err := redrawFrame(w, lastFrame); err != nil {
		return err
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set raw mode: %w", err)
	}
	defer term.Restore(fd, state)

	var key [1]byte
	if _, err := os.Stdin.Read(key[:]); err != nil {
		return fmt.Errorf("wait for keypress: %w", err)
	}
	if key[0] == 0x03 || key[0] == 0x1C {
		return errors.New("aborted")
	}
	return nil
}

// redrawFrame clears the screen and replays the final frame.
func redrawFrame(w io.Writer, lastFrame *bytebuf.Buffer) error {
	if _, err := io.WriteString(w, ansi.ClearScreen); err != nil {
		return fmt.Errorf("redraw frame: %w", err)
	}
	if _, err := w.Write(lastFrame.Bytes()); err != nil {
		return fmt.Errorf("redraw frame: %w", err)
	}
	return nil
}
