package app

import (
	"context"
	"strings"

	"quizmaster/internal/domain"
)

// SkipToken is the explicit non-answer marker offered alongside the options.
const SkipToken = "d"

// QuestionStore abstracts the persisted question bank (file-backed in prod).
type QuestionStore interface {
	Append(q domain.Question) error
	ReadAll() ([]domain.Question, error)
}

// AnswerSource supplies exactly one answer token per presented question.
type AnswerSource interface {
	Answer(number int, q domain.Question) (string, error)
}

// AnswerFunc adapts a function to the AnswerSource interface.
type AnswerFunc func(number int, q domain.Question) (string, error)

func (f AnswerFunc) Answer(number int, q domain.Question) (string, error) {
	return f(number, q)
}

// SliceAnswers returns an AnswerSource that replays fixed tokens in order;
// questions beyond the slice are skipped.
func SliceAnswers(tokens []string) AnswerSource {
	return AnswerFunc(func(number int, _ domain.Question) (string, error) {
		if number-1 < len(tokens) {
			return tokens[number-1], nil
		}
		return SkipToken, nil
	})
}

// ExamService runs exam attempts over the question bank.
type ExamService struct {
	questions QuestionStore
}

func NewExamService(questions QuestionStore) *ExamService {
	return &ExamService{questions: questions}
}

// AddQuestion validates and appends one question to the bank.
func (s *ExamService) AddQuestion(q domain.Question) error {
	if strings.TrimSpace(q.Text) == "" {
		return domain.ErrInvalidQuestion
	}
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return domain.ErrInvalidQuestion
		}
	}
	if q.Correct < 0 || q.Correct >= domain.OptionCount {
		return domain.ErrInvalidQuestion
	}
	return s.questions.Append(q)
}

// Questions returns the bank in append order.
func (s *ExamService) Questions() ([]domain.Question, error) {
	return s.questions.ReadAll()
}

// Run iterates the question bank in store order (1-indexed for display),
// requests one answer token per question, and returns the graded attempt.
// An empty bank yields a zero result, not an error. The runner itself has no
// persistence side effect; appending to the result log is the caller's step.
func (s *ExamService) Run(ctx context.Context, participant string, source AnswerSource) (domain.AttemptResult, error) {
	questions, err := s.questions.ReadAll()
	if err != nil {
		return domain.AttemptResult{}, err
	}

	result := domain.AttemptResult{
		Participant: participant,
		PerQuestion: make([]domain.QuestionOutcome, 0, len(questions)),
	}
	for i, q := range questions {
		if err := ctx.Err(); err != nil {
			return domain.AttemptResult{}, err
		}
		token, err := source.Answer(i+1, q)
		if err != nil {
			return domain.AttemptResult{}, err
		}

		outcome := Grade(q, token)
		switch outcome {
		case domain.OutcomeCorrect:
			result.Correct++
			result.Score += 4
		case domain.OutcomeWrong:
			result.Incorrect++
			result.Score--
		case domain.OutcomeSkipped:
			result.Skipped++
		}
		result.PerQuestion = append(result.PerQuestion, domain.QuestionOutcome{
			Text:    q.Text,
			Outcome: outcome,
		})
	}
	return result, nil
}

// Grade scores a single answer token against a question. The token matching
// the correct option letter (case-insensitive) is correct; the skip marker
// and any unrecognized input count as skipped; the remaining valid option
// letters count as wrong. Treating unrecognized input as a skip rather than
// a wrong answer is a deliberate policy choice: skip is the only explicit
// non-answer marker.
func Grade(q domain.Question, token string) domain.Outcome {
	token = strings.ToLower(strings.TrimSpace(token))

	if token == domain.OptionLetter(q.Correct) {
		return domain.OutcomeCorrect
	}
	if token == SkipToken || token == "skip" {
		return domain.OutcomeSkipped
	}
	for idx := 0; idx < domain.OptionCount; idx++ {
		if token == domain.OptionLetter(idx) {
			return domain.OutcomeWrong
		}
	}
	return domain.OutcomeSkipped
}
