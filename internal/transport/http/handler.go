package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"quizmaster/internal/app"
	"quizmaster/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Handler serves the form-based web surface: add question, view the bank,
// take an exam, and view the leaderboard.
type Handler struct {
	exams *app.ExamService
	board *app.LeaderboardService
	tmpl  *template.Template
}

func NewHandler(exams *app.ExamService, board *app.LeaderboardService) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Handler{exams: exams, board: board, tmpl: tmpl}, nil
}

// Register wires the four operations onto the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/", h.home)
	mux.HandleFunc("/questions", h.questions)
	mux.HandleFunc("/exam", h.exam)
	mux.HandleFunc("/leaderboard", h.leaderboard)
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	h.render(w, "index.html", nil)
}

func (h *Handler) questions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.addQuestion(w, r)
	case http.MethodGet:
		h.listQuestions(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) addQuestion(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	correct := -1
	for idx := 0; idx < domain.OptionCount; idx++ {
		if strings.EqualFold(r.PostFormValue("correct"), domain.OptionLetter(idx)) {
			correct = idx
		}
	}
	q := domain.Question{
		Text: strings.TrimSpace(r.PostFormValue("text")),
		Options: [domain.OptionCount]string{
			strings.TrimSpace(r.PostFormValue("option_a")),
			strings.TrimSpace(r.PostFormValue("option_b")),
			strings.TrimSpace(r.PostFormValue("option_c")),
		},
		Correct: correct,
	}
	if err := h.exams.AddQuestion(q); err != nil {
		if errors.Is(err, domain.ErrInvalidQuestion) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.internalError(w, err)
		return
	}
	http.Redirect(w, r, "/questions", http.StatusSeeOther)
}

type questionView struct {
	Number  int
	Text    string
	Options []optionView
}

type optionView struct {
	Letter  string
	Text    string
	Correct bool
}

func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.exams.Questions()
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.render(w, "questions.html", struct {
		Questions []questionView
	}{Questions: questionViews(questions, true)})
}

func (h *Handler) exam(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.examForm(w, r)
	case http.MethodPost:
		h.submitExam(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) examForm(w http.ResponseWriter, r *http.Request) {
	questions, err := h.exams.Questions()
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.render(w, "exam.html", struct {
		Questions []questionView
		SkipToken string
	}{Questions: questionViews(questions, false), SkipToken: app.SkipToken})
}

func (h *Handler) submitExam(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.PostFormValue("name"))
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	questions, err := h.exams.Questions()
	if err != nil {
		h.internalError(w, err)
		return
	}
	tokens := make([]string, len(questions))
	for i := range questions {
		tokens[i] = r.PostFormValue(fmt.Sprintf("answer_%d", i+1))
	}

	result, err := h.exams.Run(r.Context(), name, app.SliceAnswers(tokens))
	if err != nil {
		h.internalError(w, err)
		return
	}

	if _, err := h.board.Record(r.Context(), domain.ResultRow{
		Username:  name,
		Name:      name,
		Correct:   result.Correct,
		Incorrect: result.Incorrect,
		Skipped:   result.Skipped,
		Score:     result.Score,
	}); err != nil {
		h.internalError(w, err)
		return
	}

	h.render(w, "result.html", result)
}

func (h *Handler) leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.board.Board(r.Context())
	if err != nil {
		h.internalError(w, err)
		return
	}
	h.render(w, "leaderboard.html", board)
}

func (h *Handler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("render %s: %v", name, err)
	}
}

func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Printf("handler error: %v", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func questionViews(questions []domain.Question, revealCorrect bool) []questionView {
	views := make([]questionView, 0, len(questions))
	for i, q := range questions {
		view := questionView{Number: i + 1, Text: q.Text}
		for idx, text := range q.Options {
			view.Options = append(view.Options, optionView{
				Letter:  domain.OptionLetter(idx),
				Text:    text,
				Correct: revealCorrect && idx == q.Correct,
			})
		}
		views = append(views, view)
	}
	return views
}
