package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-reader/internal/ai"
	"github.com/thywilljoshua/pdf-reader/internal/export"
	"github.com/thywilljoshua/pdf-reader/internal/quiz"
	"github.com/thywilljoshua/pdf-reader/internal/session"
)

func questionsCmd(cfgPath *string) *cobra.Command {
	var out string
	var asJSON bool
	var withAnswers bool

	cmd := &cobra.Command{
		Use:   "questions <pdf>",
		Short: "Generate exam questions with answers from a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, "")
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.openReader(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			qs, err := quiz.New(r.llm, r.sess, a.log).Generate(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to generate questions: %s", ai.Describe(err))
			}

			w := cmd.OutOrStdout()
			if out != "" {
				title := r.sess.Snapshot().Document.Name
				path, err := export.WriteStudySheet(out, strings.TrimSuffix(title, ".pdf"), qs)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "Wrote %d questions to %s\n", len(qs), path)
				return nil
			}
			if asJSON {
				b, err := json.MarshalIndent(qs, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(w, string(b))
				return nil
			}
			fmt.Fprint(w, formatQuestions(qs, withAnswers))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write an MDX study sheet into this directory")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the questions as JSON")
	cmd.Flags().BoolVar(&withAnswers, "answers", false, "print answers under each question")
	return cmd
}

func formatQuestions(qs session.QuestionSet, withAnswers bool) string {
	var b strings.Builder
	for i, q := range qs {
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, q.Question)
		if withAnswers {
			fmt.Fprintf(&b, "    %s\n\n", strings.ReplaceAll(strings.TrimSpace(q.Answer), "\n", "\n    "))
		}
	}
	return b.String()
}
