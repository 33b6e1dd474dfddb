package main

import (
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-reader/internal/chat"
	"github.com/thywilljoshua/pdf-reader/internal/quiz"
	"github.com/thywilljoshua/pdf-reader/internal/tui"
)

func chatCmd(cfgPath *string) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "chat <pdf>",
		Short: "Open the interactive reading assistant for a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if logFile == "" {
				logFile = filepath.Join(os.TempDir(), "pdfreader.log")
			}
			a, err := newApp(*cfgPath, logFile)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			r, err := a.openReader(ctx, args[0])
			if err != nil {
				return err
			}
			m := tui.New(ctx,
				quiz.New(r.llm, r.sess, a.log),
				chat.New(r.llm, r.sess, a.log),
				filepath.Base(args[0]),
				r.prof.Initial(),
			)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}
	cmd.Flags().StringVar(&logFile, "log-file", "", "log destination while the UI is open (default: pdfreader.log in the temp dir)")
	return cmd
}
