package domain

// OptionCount is the number of answer options every question carries.
const OptionCount = 3

// Question models a three-option MCQ with exactly one correct option.
type Question struct {
	Text    string              `json:"text"`
	Options [OptionCount]string `json:"options"`
	Correct int                 `json:"correct"` // index into Options
}

// OptionLetter returns the display letter (a, b, c) for an option index.
func OptionLetter(idx int) string {
	return string(rune('a' + idx))
}

// Outcome is the graded result of a single presented question.
type Outcome string

const (
	OutcomeCorrect Outcome = "correct"
	OutcomeWrong   Outcome = "wrong"
	OutcomeSkipped Outcome = "skipped"
)

// QuestionOutcome pairs a question with how the participant fared on it.
type QuestionOutcome struct {
	Text    string  `json:"text"`
	Outcome Outcome `json:"outcome"`
}

// AttemptResult summarizes one full pass through the question bank.
// Invariant: Score == 4*Correct - Incorrect.
type AttemptResult struct {
	Participant string            `json:"participant"`
	Correct     int               `json:"correct"`
	Incorrect   int               `json:"incorrect"`
	Skipped     int               `json:"skipped"`
	Score       int               `json:"score"`
	PerQuestion []QuestionOutcome `json:"perQuestion"`
}

// ResultRow is the persisted summary of one attempt in the result log.
type ResultRow struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Correct   int    `json:"correct"`
	Incorrect int    `json:"incorrect"`
	Skipped   int    `json:"skipped"`
	Score     int    `json:"score"`
}

// RankedRow is a leaderboard entry: a result row plus its 1-based rank.
type RankedRow struct {
	Rank int `json:"rank"`
	ResultRow
}

// Leaderboard is the ranked view over the result log.
type Leaderboard struct {
	Rows []RankedRow `json:"rows"`
}

// Account is one registered username/password pair.
type Account struct {
	Username string
	Password string
}

// Identity is the outcome of the login flow; it is attached to exam results.
// Guest identities are synthesized and never written to the account store.
type Identity struct {
	Username string
	Name     string
	Guest    bool
}
