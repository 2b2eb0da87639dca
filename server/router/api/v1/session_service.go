package v1

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/plugin/ai/memory"
	"github.com/Chriskfigures777/Niceone/plugin/ai/session"
)

const maxMemorySearchLimit = 50

type createSessionRequest struct {
	Email string `json:"email"`
}

type createSessionResponse struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// CreateSession starts a conversation and returns its bearer token.
// POST /api/v1/sessions
func (s *APIV1Service) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return apperrors.InvalidArgument("invalid request body")
		}
	}

	sess := s.Sessions.Create(strings.TrimSpace(req.Email))
	token, err := s.Auth.Issue(sess.ID(), sess.Email())
	if err != nil {
		_ = s.Sessions.End(c.Request().Context(), sess.ID())
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to issue token")
	}
	return c.JSON(http.StatusCreated, createSessionResponse{ID: sess.ID(), Token: token, Email: sess.Email()})
}

type appendMessageRequest struct {
	Role  session.Role   `json:"role"`
	Text  string         `json:"text"`
	Parts []session.Part `json:"parts"`
}

type appendMessageResponse struct {
	Email    string `json:"email,omitempty"`
	Messages int    `json:"messages"`
}

// AppendMessage records one conversation turn. A bare text field is shorthand
// for a single text part.
// POST /api/v1/sessions/:id/messages
func (s *APIV1Service) AppendMessage(c echo.Context) error {
	id, err := ownSession(c)
	if err != nil {
		return err
	}

	var req appendMessageRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidArgument("invalid request body")
	}
	msg, err := req.message()
	if err != nil {
		return err
	}

	sess, err := s.Sessions.Append(id, msg)
	if err != nil {
		return apperrors.SessionNotFound(id)
	}
	return c.JSON(http.StatusOK, appendMessageResponse{Email: sess.Email(), Messages: len(sess.Messages())})
}

func (r appendMessageRequest) message() (session.Message, error) {
	role := r.Role
	switch role {
	case "":
		role = session.RoleUser
	case session.RoleUser, session.RoleAssistant:
	default:
		return session.Message{}, apperrors.InvalidArgument("role must be 'user' or 'assistant'")
	}

	parts := make([]session.Part, 0, len(r.Parts)+1)
	if r.Text != "" {
		parts = append(parts, session.Part{Kind: session.PartText, Text: r.Text})
	}
	for _, p := range r.Parts {
		switch p.Kind {
		case session.PartText, session.PartImage, session.PartOther:
		case "":
			p.Kind = session.PartOther
		default:
			return session.Message{}, apperrors.InvalidArgument("unknown part kind: " + string(p.Kind))
		}
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return session.Message{}, apperrors.InvalidArgument("message has no content")
	}
	return session.Message{Role: role, Parts: parts}, nil
}

// EndSession closes a conversation. End hooks flush it to long-term memory.
// DELETE /api/v1/sessions/:id
func (s *APIV1Service) EndSession(c echo.Context) error {
	id, err := ownSession(c)
	if err != nil {
		return err
	}
	if err := s.Sessions.End(c.Request().Context(), id); err != nil {
		return apperrors.SessionNotFound(id)
	}
	return c.NoContent(http.StatusNoContent)
}

type searchMemoriesResponse struct {
	Memories []memory.Memory `json:"memories"`
	Prompt   string          `json:"prompt"`
}

// SearchMemories recalls what earlier conversations with the session's
// caller left behind.
// GET /api/v1/sessions/:id/memories?q=&limit=
func (s *APIV1Service) SearchMemories(c echo.Context) error {
	id, err := ownSession(c)
	if err != nil {
		return err
	}
	sess, err := s.Sessions.Get(id)
	if err != nil {
		return apperrors.SessionNotFound(id)
	}
	if !s.Memory.Enabled() {
		return c.JSON(http.StatusOK, searchMemoriesResponse{Memories: []memory.Memory{}})
	}

	limit, err := intQueryParam(c, "limit", 0, maxMemorySearchLimit)
	if err != nil {
		return err
	}

	reqCtx, ctx := requestContext(c, id, "")
	memories, err := s.Memory.Search(ctx, sess.Email(), c.QueryParam("q"), limit)
	if err != nil {
		reqCtx.Error("memory search failed", err)
		return apperrors.Wrap(err, apperrors.ErrCodeServiceUnavailable, "memory search failed")
	}
	if memories == nil {
		memories = []memory.Memory{}
	}
	return c.JSON(http.StatusOK, searchMemoriesResponse{Memories: memories, Prompt: memory.FormatForPrompt(memories)})
}
