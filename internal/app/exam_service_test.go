package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"quizmaster/internal/app"
	"quizmaster/internal/domain"
	"quizmaster/internal/infra/file"
)

func newExamService(t *testing.T, questions []domain.Question) *app.ExamService {
	t.Helper()
	store := file.NewQuestionStore(filepath.Join(t.TempDir(), "quest.bin"))
	service := app.NewExamService(store)
	for _, q := range questions {
		if err := service.AddQuestion(q); err != nil {
			t.Fatalf("add question: %v", err)
		}
	}
	return service
}

func bankABC() []domain.Question {
	return []domain.Question{
		{Text: "q1", Options: [3]string{"x", "y", "z"}, Correct: 0},
		{Text: "q2", Options: [3]string{"x", "y", "z"}, Correct: 1},
		{Text: "q3", Options: [3]string{"x", "y", "z"}, Correct: 2},
	}
}

func TestRunEmptyBank(t *testing.T) {
	service := newExamService(t, nil)

	result, err := service.Run(context.Background(), "alice", app.SliceAnswers(nil))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Correct != 0 || result.Incorrect != 0 || result.Skipped != 0 || result.Score != 0 {
		t.Fatalf("expected zero result, got %+v", result)
	}
	if len(result.PerQuestion) != 0 {
		t.Fatalf("expected empty per-question sequence, got %d", len(result.PerQuestion))
	}
}

func TestRunMixedAnswers(t *testing.T) {
	service := newExamService(t, bankABC())

	// One correct, one wrong letter, one explicit skip: 4 - 1 + 0 = 3.
	result, err := service.Run(context.Background(), "alice", app.SliceAnswers([]string{"a", "c", "d"}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Correct != 1 || result.Incorrect != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.Score != 3 {
		t.Fatalf("expected score 3, got %d", result.Score)
	}
	if got := result.Correct + result.Incorrect + result.Skipped; got != 3 {
		t.Fatalf("counts must cover every question, got %d", got)
	}
	want := []domain.Outcome{domain.OutcomeCorrect, domain.OutcomeWrong, domain.OutcomeSkipped}
	for i, outcome := range want {
		if result.PerQuestion[i].Outcome != outcome {
			t.Fatalf("question %d: expected %s, got %s", i+1, outcome, result.PerQuestion[i].Outcome)
		}
	}
}

func TestRunUnrecognizedTokenCountsAsSkip(t *testing.T) {
	service := newExamService(t, bankABC())

	result, err := service.Run(context.Background(), "alice", app.SliceAnswers([]string{"x", "?", ""}))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if result.Skipped != 3 || result.Incorrect != 0 || result.Score != 0 {
		t.Fatalf("unrecognized input must skip, got %+v", result)
	}
}

func TestRunScoreInvariant(t *testing.T) {
	service := newExamService(t, bankABC())

	for _, answers := range [][]string{
		{"a", "b", "c"},
		{"b", "a", "a"},
		{"d", "d", "d"},
		{"a", "zz", "b"},
	} {
		result, err := service.Run(context.Background(), "alice", app.SliceAnswers(answers))
		if err != nil {
			t.Fatalf("run %v: %v", answers, err)
		}
		if result.Score != 4*result.Correct-result.Incorrect {
			t.Fatalf("score invariant broken for %v: %+v", answers, result)
		}
		if result.Correct+result.Incorrect+result.Skipped != 3 {
			t.Fatalf("counts don't cover bank for %v: %+v", answers, result)
		}
	}
}

func TestGradeCaseInsensitive(t *testing.T) {
	q := domain.Question{Text: "q", Options: [3]string{"x", "y", "z"}, Correct: 1}

	if got := app.Grade(q, " B "); got != domain.OutcomeCorrect {
		t.Fatalf("expected correct for ' B ', got %s", got)
	}
	if got := app.Grade(q, "SKIP"); got != domain.OutcomeSkipped {
		t.Fatalf("expected skip for 'SKIP', got %s", got)
	}
}

func TestAddQuestionValidation(t *testing.T) {
	service := newExamService(t, nil)

	bad := []domain.Question{
		{Text: "", Options: [3]string{"x", "y", "z"}, Correct: 0},
		{Text: "q", Options: [3]string{"x", "", "z"}, Correct: 0},
		{Text: "q", Options: [3]string{"x", "y", "z"}, Correct: 3},
		{Text: "q", Options: [3]string{"x", "y", "z"}, Correct: -1},
	}
	for _, q := range bad {
		if err := service.AddQuestion(q); err == nil {
			t.Fatalf("expected validation error for %+v", q)
		}
	}

	questions, err := service.Questions()
	if err != nil {
		t.Fatalf("questions: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("rejected questions must not be stored, got %d", len(questions))
	}
}
