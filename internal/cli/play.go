package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"quizmaster/internal/app"
	"quizmaster/internal/config"
	"quizmaster/internal/domain"
	"quizmaster/internal/infra/file"
	"github.com/spf13/cobra"
)

// NewPlayCmd builds the interactive console variant: login, menu loop,
// question entry, exams, and the performance board.
func NewPlayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Run the interactive console quiz",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOrDefault(*configPath)
			if err != nil {
				return err
			}
			return runConsole(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

type console struct {
	reader   *bufio.Reader
	out      io.Writer
	accounts *app.AccountService
	exams    *app.ExamService
	board    *app.LeaderboardService
}

func runConsole(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	c := &console{
		reader:   bufio.NewReader(in),
		out:      out,
		accounts: app.NewAccountService(file.NewAccountStore(cfg.AccountsPath())),
		exams:    app.NewExamService(file.NewQuestionStore(cfg.QuestionsPath())),
		board:    app.NewLeaderboardService(file.NewResultLog(cfg.ResultsPath())),
	}

	c.banner("Student-Teacher Quiz")
	identity, err := c.loginFlow()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Logged in as %s\n", identity.Username)

	for {
		c.banner("Main Menu")
		fmt.Fprintln(out, "1. Teacher - Add question")
		fmt.Fprintln(out, "2. Teacher - View question bank")
		fmt.Fprintln(out, "3. Student - Take exam")
		fmt.Fprintln(out, "4. Performance board")
		fmt.Fprintln(out, "5. Exit")

		choice, err := c.prompt("Choose an option (1-5): ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			err = c.addQuestion()
		case "2":
			err = c.viewQuestions()
		case "3":
			err = c.takeExam(ctx, identity)
		case "4":
			err = c.printBoard(ctx)
		case "5":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Please select 1-5.")
		}
		if err != nil {
			return err
		}
	}
}

// loginFlow authenticates against the account store or falls back to a
// guest identity. Retries are explicit loop iterations, never recursion.
func (c *console) loginFlow() (domain.Identity, error) {
	for {
		username, err := c.promptValid("Enter username (no commas): ", app.ValidateUsername)
		if err != nil {
			return domain.Identity{}, err
		}
		password, err := c.promptValid("Enter password (min 4 chars, no commas): ", app.ValidatePassword)
		if err != nil {
			return domain.Identity{}, err
		}

		ok, err := c.accounts.Authenticate(username, password)
		if err != nil {
			return domain.Identity{}, err
		}
		if ok {
			return domain.Identity{Username: username, Name: username}, nil
		}

		fmt.Fprintln(c.out, "Username/password not found or incorrect.")
		retry, identity, err := c.registerOrGuest(username, password)
		if err != nil {
			return domain.Identity{}, err
		}
		if !retry {
			return identity, nil
		}
	}
}

// registerOrGuest returns retry=true when the user should go back to the
// login prompts.
func (c *console) registerOrGuest(username, password string) (bool, domain.Identity, error) {
	for {
		choice, err := c.prompt("Register this account? (y/n) or type 'guest' to continue as guest: ")
		if err != nil {
			return false, domain.Identity{}, err
		}
		switch strings.ToLower(choice) {
		case "y", "yes":
			err := c.accounts.Register(username, password)
			if errors.Is(err, domain.ErrAccountExists) {
				fmt.Fprintln(c.out, "That username already exists with a different password. Try logging in or choose another username.")
				return true, domain.Identity{}, nil
			}
			if err != nil {
				return false, domain.Identity{}, err
			}
			fmt.Fprintf(c.out, "Registered new user: %s\n", username)
			return false, domain.Identity{Username: username, Name: username}, nil
		case "guest":
			identity := app.GuestIdentity(username)
			fmt.Fprintf(c.out, "Continuing in guest mode as %s. (Not saved to the user database.)\n", identity.Username)
			return false, identity, nil
		case "n", "no":
			fmt.Fprintln(c.out, "Okay, let's try logging in again.")
			return true, domain.Identity{}, nil
		default:
			fmt.Fprintln(c.out, "Please type 'y' to register, 'n' to retry login, or 'guest'.")
		}
	}
}

func (c *console) addQuestion() error {
	c.banner("Teacher - Add Question")

	text, err := c.prompt("Enter the question: ")
	if err != nil {
		return err
	}
	var options [domain.OptionCount]string
	for idx := range options {
		options[idx], err = c.prompt(fmt.Sprintf("Enter option %s: ", domain.OptionLetter(idx)))
		if err != nil {
			return err
		}
	}

	correct := -1
	for correct < 0 {
		answer, err := c.prompt("Enter the correct option [a/b/c]: ")
		if err != nil {
			return err
		}
		for idx := 0; idx < domain.OptionCount; idx++ {
			if strings.EqualFold(answer, domain.OptionLetter(idx)) {
				correct = idx
			}
		}
		if correct < 0 {
			fmt.Fprintln(c.out, "Please choose only a, b, or c.")
		}
	}

	q := domain.Question{Text: text, Options: options, Correct: correct}
	if err := c.exams.AddQuestion(q); err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			fmt.Fprintln(c.out, "Question not added:", err)
			return nil
		}
		return err
	}
	fmt.Fprintln(c.out, "Question added successfully!")
	return nil
}

func (c *console) viewQuestions() error {
	c.banner("Teacher - Question Bank")

	questions, err := c.exams.Questions()
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(c.out, "No questions found. Please add some first.")
		return nil
	}
	for i, q := range questions {
		c.printQuestion(i+1, q)
		fmt.Fprintf(c.out, "   Correct answer: %s\n", domain.OptionLetter(q.Correct))
		fmt.Fprintln(c.out, strings.Repeat("-", 50))
	}
	return nil
}

func (c *console) takeExam(ctx context.Context, identity domain.Identity) error {
	c.banner("Student Exam")

	questions, err := c.exams.Questions()
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintln(c.out, "No questions available. Ask a teacher to add some first.")
		return nil
	}

	fmt.Fprintln(c.out, "Correct answer = +4 points")
	fmt.Fprintln(c.out, "Wrong answer   = -1 point")
	fmt.Fprintln(c.out, "Skip (option d) = 0 points")
	fmt.Fprintln(c.out, strings.Repeat("-", 50))

	name, err := c.prompt("Enter your name: ")
	if err != nil {
		return err
	}
	if name == "" {
		name = identity.Name
	}

	result, err := c.exams.Run(ctx, name, app.AnswerFunc(c.askAnswer))
	if err != nil {
		return err
	}

	c.banner("Exam Results")
	fmt.Fprintf(c.out, "Student: %s\n", result.Participant)
	fmt.Fprintf(c.out, "Correct:   %d\n", result.Correct)
	fmt.Fprintf(c.out, "Incorrect: %d\n", result.Incorrect)
	fmt.Fprintf(c.out, "Skipped:   %d\n", result.Skipped)
	fmt.Fprintf(c.out, "Total score: %d\n", result.Score)

	_, err = c.board.Record(ctx, domain.ResultRow{
		Username:  identity.Username,
		Name:      name,
		Correct:   result.Correct,
		Incorrect: result.Incorrect,
		Skipped:   result.Skipped,
		Score:     result.Score,
	})
	return err
}

// askAnswer shows one question and reads a single answer token. Immediate
// feedback mirrors the final grading via app.Grade.
func (c *console) askAnswer(number int, q domain.Question) (string, error) {
	c.printQuestion(number, q)
	fmt.Fprintf(c.out, "   %s) Skip\n", app.SkipToken)

	token, err := c.prompt("Your answer [a/b/c/d]: ")
	if err != nil {
		return "", err
	}
	switch app.Grade(q, token) {
	case domain.OutcomeCorrect:
		fmt.Fprintln(c.out, "Correct!")
	case domain.OutcomeWrong:
		fmt.Fprintln(c.out, "Wrong!")
	default:
		fmt.Fprintln(c.out, "Skipped")
	}
	return token, nil
}

func (c *console) printBoard(ctx context.Context) error {
	board, err := c.board.Board(ctx)
	if err != nil {
		return err
	}
	if len(board.Rows) == 0 {
		fmt.Fprintln(c.out, "No results found yet!")
		return nil
	}

	c.banner("Performance Board")
	fmt.Fprintf(c.out, "%-5s%-20s%-15s%-10s%-10s%-12s%-10s\n",
		"Rank", "Username", "Name", "Score", "Correct", "Incorrect", "Skipped")
	fmt.Fprintln(c.out, strings.Repeat("-", 80))
	for _, row := range board.Rows {
		fmt.Fprintf(c.out, "%-5d%-20s%-15s%-10d%-10d%-12d%-10d\n",
			row.Rank, row.Username, row.Name, row.Score, row.Correct, row.Incorrect, row.Skipped)
	}
	return nil
}

func (c *console) printQuestion(number int, q domain.Question) {
	fmt.Fprintf(c.out, "\n%d. %s\n", number, q.Text)
	for idx, opt := range q.Options {
		fmt.Fprintf(c.out, "   %s) %s\n", domain.OptionLetter(idx), opt)
	}
}

func (c *console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (c *console) promptValid(label string, validate func(string) error) (string, error) {
	for {
		value, err := c.prompt(label)
		if err != nil {
			return "", err
		}
		if vErr := validate(value); vErr != nil {
			fmt.Fprintln(c.out, "Invalid input:", vErr)
			continue
		}
		return value, nil
	}
}

func (c *console) banner(title string) {
	line := strings.Repeat("=", 60)
	fmt.Fprintf(c.out, "\n%s\n%s\n%s\n\n", line, centered(title, 60), line)
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}
