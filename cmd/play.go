package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizmaster/internal/questionbank"
	"github.com/abhisek/quizmaster/internal/session"
	"github.com/abhisek/quizmaster/internal/ui/theme"
)

var playCmd = &cobra.Command{
	Use:   "play [category]",
	Short: "Start a quiz",
	Long: `Start a quiz. With a category argument the quiz opens directly,
otherwise the category menu is shown. --plain runs a line-based quiz on
stdin/stdout instead of the full-screen interface.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		ephemeral, _ := cmd.Flags().GetBool("ephemeral")

		var categoryID string
		if len(args) == 1 {
			categoryID = args[0]
		}
		if !plain && categoryID != "" && !stdinIsTerminal() {
			plain = true
		}
		if !plain && !ephemeral {
			return runApp(cmd, categoryID)
		}
		if !plain {
			return errors.New("--ephemeral requires --plain")
		}
		if categoryID == "" {
			return errors.New("--plain needs a category; see `quizmaster categories`")
		}

		d, err := buildDeps(cmd, depsOpts{ephemeral: ephemeral})
		if err != nil {
			return err
		}
		defer d.Close()

		return runPlain(contextOf(cmd), plainOptions{
			Questions: d.questions,
			Progress:  d.progress,
			Events:    d.events,
			Delay:     d.cfg.AdvanceDelay,
			Logger:    d.log,
		}, categoryID, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	playCmd.Flags().Bool("plain", false, "Line-based quiz on stdin/stdout")
	playCmd.Flags().Bool("ephemeral", false, "Keep progress in memory only (with --plain)")
}

// plainOptions are the collaborators of a line-based quiz.
type plainOptions struct {
	Questions session.QuestionSource
	Progress  session.ProgressStore
	Events    session.EventRecorder
	Delay     time.Duration
	AfterFunc session.AfterFunc
	Logger    zerolog.Logger
}

var (
	plainPrompt  = theme.Body.Bold(true)
	plainDim     = theme.Hint
	plainCorrect = theme.Correct
	plainWrong   = theme.Incorrect
	plainTitle   = theme.Title
)

// plainQuiz runs a session against line input. Timer fires and input lines
// arrive on separate channels and are handled on one goroutine.
type plainQuiz struct {
	ctrl  *session.Controller
	fires chan session.Token
	lines <-chan string
	out   io.Writer

	// pending holds a line typed while a correct answer was on screen. It
	// skips the wait and answers the next question.
	pending string
	eof     bool
	shown   int
}

func runPlain(ctx context.Context, opts plainOptions, categoryID string, in io.Reader, out io.Writer) error {
	fires := make(chan session.Token, 1)
	ctrl := session.New(session.Options{
		Questions: opts.Questions,
		Progress:  opts.Progress,
		Events:    opts.Events,
		Delay:     opts.Delay,
		AfterFunc: opts.AfterFunc,
		Dispatch: func(tok session.Token) {
			select {
			case fires <- tok:
			default:
			}
		},
		Logger: opts.Logger,
	})
	defer ctrl.Close()

	if err := ctrl.Initialize(ctx, categoryID); err != nil {
		if errors.Is(err, session.ErrCategoryNotFound) {
			fmt.Fprintln(out, plainWrong.Render(fmt.Sprintf("Category %q not found.", categoryID)))
		}
		return err
	}

	q := &plainQuiz{
		ctrl:  ctrl,
		fires: fires,
		lines: readLines(ctx, in),
		out:   out,
		shown: -1,
	}
	return q.run(ctx)
}

// readLines forwards trimmed lines from r until EOF or ctx is done.
func readLines(ctx context.Context, r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case ch <- strings.TrimSpace(sc.Text()):
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (p *plainQuiz) run(ctx context.Context) error {
	p.printHeader()
	for {
		st := p.ctrl.State()
		if st.Phase == session.PhaseComplete {
			p.printSummary()
			return nil
		}

		question, _ := p.ctrl.Question()
		if st.QuestionIndex != p.shown {
			p.printQuestion(st, question)
			p.shown = st.QuestionIndex
		}
		fmt.Fprint(p.out, plainDim.Render("Answer (A-"+questionbank.Label(len(question.Options)-1)+", r reset, q quit): "))

		line, ok := p.next(ctx)
		if !ok {
			fmt.Fprintln(p.out)
			return p.quit(ctx)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit":
			return p.quit(ctx)
		case "r", "reset":
			if err := p.ctrl.Reset(ctx); err != nil {
				return err
			}
			fmt.Fprintln(p.out, plainDim.Render("Progress reset. Starting over."))
			p.shown = -1
			continue
		}

		label, ok := questionbank.ParseLabel(line, len(question.Options))
		if !ok {
			fmt.Fprintln(p.out, plainWrong.Render(fmt.Sprintf("%q is not an option.", line)))
			continue
		}
		p.ctrl.Submit(ctx, label)

		st = p.ctrl.State()
		switch st.Feedback {
		case session.FeedbackWrong:
			fmt.Fprintln(p.out, plainWrong.Render("✗ Wrong answer. Try again."))
			p.ctrl.Retry()
		case session.FeedbackCorrect:
			fmt.Fprintln(p.out, plainCorrect.Render(fmt.Sprintf("✓ Correct! Score: %d", st.TotalScore)))
			if err := p.waitAdvance(ctx); err != nil {
				return err
			}
		}
	}
}

// next returns the pending line if any, otherwise the next input line.
func (p *plainQuiz) next(ctx context.Context) (string, bool) {
	if p.pending != "" {
		line := p.pending
		p.pending = ""
		return line, true
	}
	if p.eof {
		return "", false
	}
	select {
	case line, ok := <-p.lines:
		if !ok {
			p.eof = true
		}
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

// waitAdvance holds a correct answer until the timer fires or the player
// presses Enter.
func (p *plainQuiz) waitAdvance(ctx context.Context) error {
	for {
		select {
		case tok := <-p.fires:
			if p.ctrl.Fire(ctx, tok) || !p.ctrl.AutoAdvancePending() {
				return nil
			}
		case line, ok := <-p.lines:
			p.ctrl.Advance(ctx)
			if !ok {
				p.eof = true
				return nil
			}
			p.pending = line
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *plainQuiz) quit(ctx context.Context) error {
	st := p.ctrl.State()
	p.ctrl.Close()
	if st.Phase == session.PhaseActive {
		fmt.Fprintln(p.out, plainDim.Render(fmt.Sprintf("Progress saved at question %d. Score: %d", st.QuestionIndex+1, st.TotalScore)))
	}
	return ctx.Err()
}

func (p *plainQuiz) printHeader() {
	cat := p.ctrl.Category()
	st := p.ctrl.State()
	fmt.Fprintln(p.out, plainTitle.Render(cat.DisplayName))
	if cat.Description != "" {
		fmt.Fprintln(p.out, plainDim.Render(cat.Description))
	}
	if st.QuestionIndex > 0 || st.TotalScore > 0 {
		fmt.Fprintln(p.out, plainDim.Render(fmt.Sprintf("Resuming at question %d with %d points.", st.QuestionIndex+1, st.TotalScore)))
	}
}

func (p *plainQuiz) printQuestion(st session.State, q questionbank.Question) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, plainDim.Render(fmt.Sprintf("Question %d of %d · %s · Score %d", st.QuestionIndex+1, st.TotalQuestions, q.Difficulty, st.TotalScore)))
	fmt.Fprintln(p.out, plainPrompt.Render(q.Prompt))
	for i, opt := range q.Options {
		fmt.Fprintf(p.out, "  %s) %s\n", questionbank.Label(i), opt)
	}
}

func (p *plainQuiz) printSummary() {
	s := p.ctrl.Summary()
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, plainTitle.Render("Quiz complete: "+s.DisplayName))
	fmt.Fprintf(p.out, "Score: %d / %d\n", s.Score, s.MaxScore)
	fmt.Fprintf(p.out, "First try: %d of %d (%d%%)\n", s.FirstTry, s.Total, s.Percent)
	fmt.Fprintln(p.out, plainCorrect.Render(s.Verdict))
}

// stdinIsTerminal reports whether stdin is interactive.
func stdinIsTerminal() bool {
	fi, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
