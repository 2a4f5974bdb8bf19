package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"

	"story_polisher/generator"
)

//go:embed web/templates/*.html
var templatesFS embed.FS

const (
	appTitle       = "Story Polisher"
	defaultTimeout = 60 * time.Second
)

var welcomeLines = []string{
	"Welcome to Story Polisher.",
	"Fix the loopholes.",
	"Make your stories more entertaining.",
}

// QuestionGenerator turns a story into critique questions.
type QuestionGenerator interface {
	Generate(ctx context.Context, story string) (generator.QuestionList, error)
}

type Server struct {
	gen       QuestionGenerator
	templates *template.Template
	md        goldmark.Markdown
	timeout   time.Duration
	logger    *slog.Logger
}

// Options tunes a Server. Zero values fall back to defaults.
type Options struct {
	Timeout time.Duration
	Logger  *slog.Logger
}

func New(gen QuestionGenerator, opts Options) (*Server, error) {
	if gen == nil {
		return nil, errors.New("question generator required")
	}
	tmpl, err := template.ParseFS(templatesFS, "web/templates/*.html")
	if err != nil {
		return nil, err
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		gen:       gen,
		templates: tmpl,
		md:        goldmark.New(),
		timeout:   opts.Timeout,
		logger:    opts.Logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/polish", s.handlePolish)
	mux.HandleFunc("/api/questions", s.handleAPIQuestions)
	return s.logMiddleware(mux)
}

// --- Views ---

type indexView struct {
	Title   string
	Heading []string
}

type formView struct {
	Title   string
	Heading string
}

type resultsView struct {
	Title     string
	Questions []template.HTML
}

type errorView struct {
	Title        string
	ErrorMessage string
}

// --- Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.render(w, r, http.StatusOK, "index", indexView{Title: appTitle, Heading: welcomeLines})
}

func (s *Server) handlePolish(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.render(w, r, http.StatusOK, "polish", formView{
			Title:   "Input Story",
			Heading: "Please enter the story you want to polish.",
		})
	case http.MethodPost:
		s.handlePolishSubmit(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePolishSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}
	story := r.PostFormValue("story_input")
	if strings.TrimSpace(story) == "" {
		s.renderError(w, r, http.StatusBadRequest, errors.New("story_input is required"))
		return
	}

	questions, err := s.generate(r.Context(), story)
	if err != nil {
		s.renderError(w, r, http.StatusBadGateway, err)
		return
	}

	items := make([]template.HTML, len(questions))
	for i, q := range questions {
		items[i] = s.renderQuestion(q)
	}
	s.render(w, r, http.StatusOK, "results", resultsView{Title: "Response", Questions: items})
}

type questionsResp struct {
	Questions generator.QuestionList `json:"questions,omitempty"`
	Error     string                 `json:"error,omitempty"`
}

func (s *Server) handleAPIQuestions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req generator.StoryInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, questionsResp{Error: err.Error()})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, questionsResp{Error: "story_input is required"})
		return
	}
	questions, err := s.generate(r.Context(), req.Text)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, questionsResp{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, questionsResp{Questions: questions})
}

// --- Helpers ---

func (s *Server) generate(ctx context.Context, story string) (generator.QuestionList, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	questions, err := s.gen.Generate(ctx, story)
	if err != nil {
		s.logger.ErrorContext(ctx, "[Server] question generation failed",
			slog.Int("story_len", len(story)),
			slog.Any("error", err))
		return nil, err
	}
	s.logger.InfoContext(ctx, "[Server] questions generated",
		slog.Int("story_len", len(story)),
		slog.Int("questions", len(questions)))
	return questions, nil
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	s.render(w, r, status, "error", errorView{
		Title:        "Error",
		ErrorMessage: fmt.Sprintf("Error occurred: %v", err),
	})
}

// render buffers the page so a template failure can still answer 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "[Server] template render failed",
			slog.String("template", name),
			slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.InfoContext(r.Context(), "[Server] request",
			slog.String("request_id", reqID),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}
