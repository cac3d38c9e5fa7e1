// Package server exposes the navigator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/career-navigator/internal/analysis"
	"github.com/spigell/career-navigator/internal/chat"
	"github.com/spigell/career-navigator/internal/logger"
	"github.com/spigell/career-navigator/internal/navigator"
	"github.com/spigell/career-navigator/internal/store"
)

const DefaultAddress = "127.0.0.1:8080"

type Server struct {
	h         *server.Hertz
	svc       *navigator.Service
	assistant *chat.Assistant
	validate  *validator.Validate
	logger    *zap.Logger
}

type chatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type analysisResponse struct {
	Result    analysis.Result `json:"result"`
	Persisted bool            `json:"persisted"`
	Error     string          `json:"error,omitempty"`
}

type roleResponse struct {
	Name     string   `json:"name"`
	Requires []string `json:"requires"`
	Projects []string `json:"projects"`
}

func New(addr string, svc *navigator.Service, assistant *chat.Assistant, log *zap.Logger) *Server {
	if addr == "" {
		addr = DefaultAddress
	}

	s := &Server{
		h:         server.New(server.WithHostPorts(addr)),
		svc:       svc,
		assistant: assistant,
		validate:  validator.New(),
		logger:    logger.WithFields(log),
	}
	s.routes()

	return s
}

// Engine exposes the router for in-process requests.
func (s *Server) Engine() *route.Engine {
	return s.h.Engine
}

// Run serves until the process receives a termination signal.
func (s *Server) Run() {
	s.h.Spin()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.h.Shutdown(ctx)
}

func (s *Server) routes() {
	s.h.GET("/healthz", func(_ context.Context, c *app.RequestContext) {
		c.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})

	api := s.h.Group("/api/v1")
	api.GET("/roles", s.listRoles)
	api.GET("/chat/prompts", s.quickPrompts)

	users := api.Group("/users/:user")
	users.POST("/evidence", s.importEvidence)
	users.POST("/analysis", s.analyze)
	users.GET("/analysis", s.latest)
	users.POST("/chat", s.ask)
}

func (s *Server) listRoles(_ context.Context, c *app.RequestContext) {
	lex := s.svc.Lexicon()
	roles := make([]roleResponse, 0, len(lex.Roles()))
	for _, name := range lex.Roles() {
		required, _ := lex.Required(name)
		roles = append(roles, roleResponse{Name: name, Requires: required, Projects: lex.Projects(name)})
	}
	c.JSON(consts.StatusOK, utils.H{"defaultRole": lex.DefaultRole(), "roles": roles})
}

func (s *Server) quickPrompts(_ context.Context, c *app.RequestContext) {
	c.JSON(consts.StatusOK, utils.H{"greeting": chat.Greeting, "prompts": chat.QuickPrompts})
}

func (s *Server) importEvidence(ctx context.Context, c *app.RequestContext) {
	var in navigator.EvidenceImport
	if !s.bind(c, &in, true) {
		return
	}

	doc, err := s.svc.ImportEvidence(ctx, c.Param("user"), in)
	if err != nil {
		s.fail(c, statusFor(err), err)
		return
	}

	c.JSON(consts.StatusOK, doc)
}

func (s *Server) analyze(ctx context.Context, c *app.RequestContext) {
	var req navigator.AnalyzeRequest
	if !s.bind(c, &req, false) {
		return
	}

	result, err := s.svc.Analyze(ctx, c.Param("user"), req)
	var persistErr *navigator.PersistError
	switch {
	case errors.As(err, &persistErr):
		c.JSON(consts.StatusServiceUnavailable, analysisResponse{Result: result, Error: err.Error()})
	case err != nil:
		s.fail(c, statusFor(err), err)
	default:
		c.JSON(consts.StatusOK, analysisResponse{Result: result, Persisted: true})
	}
}

func (s *Server) latest(ctx context.Context, c *app.RequestContext) {
	result, err := s.svc.Latest(ctx, c.Param("user"))
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.fail(c, consts.StatusNotFound, errors.New("no analysis for user"))
	case err != nil:
		s.fail(c, consts.StatusInternalServerError, err)
	default:
		c.JSON(consts.StatusOK, result)
	}
}

func (s *Server) ask(ctx context.Context, c *app.RequestContext) {
	var req chatRequest
	if !s.bind(c, &req, true) {
		return
	}

	reply, err := s.assistant.Ask(ctx, c.Param("user"), req.Message)
	if err != nil {
		s.fail(c, consts.StatusInternalServerError, err)
		return
	}

	c.JSON(consts.StatusOK, reply)
}

// bind decodes and validates the JSON body. An empty body is accepted when
// required is false.
func (s *Server) bind(c *app.RequestContext, target any, required bool) bool {
	body := c.Request.Body()
	if len(body) == 0 {
		if required {
			s.fail(c, consts.StatusBadRequest, errors.New("request body is required"))
			return false
		}
		return true
	}

	if err := json.Unmarshal(body, target); err != nil {
		s.fail(c, consts.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return false
	}

	if err := s.validate.Struct(target); err != nil {
		s.fail(c, consts.StatusBadRequest, fmt.Errorf("invalid request: %w", err))
		return false
	}

	return true
}

func statusFor(err error) int {
	if errors.Is(err, navigator.ErrInvalidInput) {
		return consts.StatusBadRequest
	}
	return consts.StatusInternalServerError
}

func (s *Server) fail(c *app.RequestContext, status int, err error) {
	if status >= consts.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", string(c.Path())),
			zap.String(logger.FieldUserID, c.Param("user")),
			zap.Error(err),
		)
	}
	c.JSON(status, utils.H{"error": err.Error()})
}
