package main

import (
	"bytes"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	hypermedia "github.com/goliatone/go-hypermedia"
	"github.com/goliatone/go-hypermedia/pkg/config"
	"github.com/goliatone/go-hypermedia/pkg/logging"
	"github.com/goliatone/go-hypermedia/pkg/markup"
	pkgopenapi "github.com/goliatone/go-hypermedia/pkg/openapi"
	"github.com/goliatone/go-hypermedia/pkg/orchestrator"
	"github.com/goliatone/go-hypermedia/pkg/render"
	"github.com/goliatone/go-hypermedia/pkg/route"
)

const xhtmlContentType = "application/xhtml+xml"

var (
	noteRoutes = route.MustGroup("notes",
		route.Action{Name: "list", Template: "/notes", Summary: "All notes"},
		route.Action{
			Name:     "search",
			Template: "/notes/search",
			Summary:  "Find notes by text or tag",
			Parameters: []route.Parameter{
				{Name: "q", Type: reflect.TypeOf(""), Source: route.SourceQuery, Required: true},
			},
		},
		route.Action{
			Name:     "show",
			Template: "/notes/{id}",
			Parameters: []route.Parameter{
				{Name: "id", Type: reflect.TypeOf(0), Source: route.SourcePath, Required: true},
			},
		},
		route.Action{
			Name:     "create",
			Method:   http.MethodPost,
			Template: "/notes",
			Summary:  "Create a note",
			Parameters: []route.Parameter{
				{Name: "title", Type: reflect.TypeOf(""), Source: route.SourceBody, Required: true},
				{Name: "body", Type: reflect.TypeOf(""), Source: route.SourceBody},
				{Name: "tags", Type: reflect.TypeOf(""), Source: route.SourceBody, Description: "Comma separated."},
			},
		},
	)
	systemRoutes = route.MustGroup("system",
		route.Action{Name: "health", Template: "/healthz", Summary: "Liveness probe"},
	)
)

// problem is rendered for error responses.
type problem struct {
	Status int    `microdata:"status"`
	Title  string `microdata:"name"`
	Detail string `microdata:"description,omitempty"`
}

type server struct {
	cfg           config.Config
	notes         *noteStore
	engine        *render.Engine
	index         *orchestrator.Orchestrator
	docs          *orchestrator.Orchestrator
	renderOptions []render.ConfigOption
	logger        zerolog.Logger
}

func newServer(cfg config.Config, notes *noteStore, logger zerolog.Logger) (*server, error) {
	renderOptions, err := cfg.RenderOptions()
	if err != nil {
		return nil, err
	}
	engine, err := hypermedia.NewEngine(render.WithLogger(logging.Component(logger, "render")))
	if err != nil {
		return nil, err
	}

	s := &server{
		cfg:           cfg,
		notes:         notes,
		engine:        engine,
		renderOptions: renderOptions,
		logger:        logger,
	}
	s.index = hypermedia.NewOrchestrator(
		orchestrator.WithProvider(route.Static{noteRoutes, systemRoutes}),
		orchestrator.WithRenderDefaults(append([]render.ConfigOption{render.WithTitle("Notes API")}, renderOptions...)...),
		orchestrator.WithDocOptions(cfg.DocOptions("")...),
		orchestrator.WithLogger(logging.Component(logger, "index")),
	)

	if source := strings.TrimSpace(cfg.Source); source != "" {
		src, err := pkgopenapi.ParseSource(source)
		if err != nil {
			return nil, err
		}
		provider, err := hypermedia.NewOpenAPIProvider(src, cfg.LoaderOptions(), cfg.ParserOptions()...)
		if err != nil {
			return nil, err
		}
		s.docs = hypermedia.NewOrchestrator(
			orchestrator.WithProvider(provider),
			orchestrator.WithDescriptions(provider),
			orchestrator.WithRenderDefaults(renderOptions...),
			orchestrator.WithDocOptions(cfg.DocOptions("")...),
			orchestrator.WithLogger(logging.Component(logger, "docs")),
		)
	}
	return s, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer, s.requestLogger)

	r.Get("/", s.handleIndex)
	if s.docs != nil {
		r.Get("/docs", s.handleDocs)
	}
	r.Route("/notes", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Get("/search", s.handleSearch)
		r.Get("/{id}", s.handleShow)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.problem(w, r, http.StatusNotFound, "Not found", r.URL.Path)
	})
	return r
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, s.index)
}

func (s *server) handleDocs(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, s.docs)
}

func (s *server) page(w http.ResponseWriter, r *http.Request, gen *orchestrator.Orchestrator) {
	page, err := gen.Build(r.Context(), orchestrator.Request{})
	if err != nil {
		s.logger.Error().Err(err).Msg("build index")
		s.problem(w, r, http.StatusInternalServerError, "Index unavailable", "")
		return
	}
	s.write(w, r, http.StatusOK, page.Document)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, s.notes.list(""), "Notes")
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	s.render(w, r, http.StatusOK, s.notes.list(query), fmt.Sprintf("Notes matching %q", query))
}

func (s *server) handleShow(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.problem(w, r, http.StatusBadRequest, "Invalid note id", chi.URLParam(r, "id"))
		return
	}
	note, ok := s.notes.get(id)
	if !ok {
		s.problem(w, r, http.StatusNotFound, "Note not found", strconv.Itoa(id))
		return
	}
	s.render(w, r, http.StatusOK, note, note.Title)
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.problem(w, r, http.StatusBadRequest, "Invalid form", err.Error())
		return
	}
	title := strings.TrimSpace(r.PostForm.Get("title"))
	if title == "" {
		s.problem(w, r, http.StatusUnprocessableEntity, "Title is required", "")
		return
	}
	var tags []string
	for _, tag := range strings.Split(r.PostForm.Get("tags"), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	note := s.notes.put(Note{Title: title, Body: strings.TrimSpace(r.PostForm.Get("body")), Tags: tags})
	http.Redirect(w, r, note.Self.Href(), http.StatusSeeOther)
}

func (s *server) problem(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	s.render(w, r, status, problem{Status: status, Title: title, Detail: detail}, title)
}

func (s *server) render(w http.ResponseWriter, r *http.Request, status int, value any, title string) {
	options := append(append([]render.ConfigOption(nil), s.renderOptions...), render.WithTitle(title))
	result, err := s.engine.Execute(value, nil, options...)
	if err != nil {
		s.logger.Error().Err(err).Msg("render")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	for _, fault := range result.Faults {
		s.logger.Warn().Err(fault).Msg("render fault")
	}
	s.write(w, r, status, result.Document)
}

// write encodes doc as XHTML when the client prefers it, HTML otherwise.
func (s *server) write(w http.ResponseWriter, r *http.Request, status int, doc *markup.Node) {
	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	if strings.Contains(r.Header.Get("Accept"), xhtmlContentType) {
		contentType = xhtmlContentType + "; charset=utf-8"
		err = markup.EncodeXHTML(&buf, doc)
	} else {
		contentType = markup.ContentType(s.cfg.Charset)
		err = markup.Encode(&buf, doc, s.cfg.Charset)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("encode")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Vary", "Accept")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
