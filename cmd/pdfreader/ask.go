package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/chat"
	"github.com/thywilljoshua/pdf-reader/internal/quiz"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

func askCmd(cfgPath *string) *cobra.Command {
	var withQuestions bool

	cmd := &cobra.Command{
		Use:   "ask <pdf> <message...>",
		Short: "Ask one question about a PDF",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				return session.ErrEmptyInput
			}

			a, err := newApp(*cfgPath, "")
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.openReader(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if withQuestions {
				// References like "question 5" need the list in context.
				if _, err := quiz.New(r.llm, r.sess, a.log).Generate(cmd.Context()); err != nil {
					return fmt.Errorf("failed to generate questions: %s", ai.Describe(err))
				}
			}

			reply, err := chat.New(r.llm, r.sess, a.log).Send(cmd.Context(), text)
			if err != nil {
				if errors.Is(err, session.ErrEmptyInput) || errors.Is(err, session.ErrNoDocument) {
					return err
				}
				return errors.New(chat.ErrorText(err))
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&withQuestions, "with-questions", "q", false, "generate questions first so they can be referenced by number")
	return cmd
}
