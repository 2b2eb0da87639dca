package v1

import (
	"io"
	"net/http"
	"strconv"

	"github.com/invopop/jsonschema"
	"github.com/labstack/echo/v4"

	apperrors "github.com/Chriskfigures777/Niceone/internal/errors"
	"github.com/Chriskfigures777/Niceone/plugin/ai/agent/tools"
)

// maxToolInputBytes bounds a tool call body.
const maxToolInputBytes = 64 << 10

type toolInfo struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"input_schema"`
}

// ListTools describes every tool the agent may call.
// GET /api/v1/tools
func (s *APIV1Service) ListTools(c echo.Context) error {
	list := s.Tools.List()
	infos := make([]toolInfo, 0, len(list))
	for _, t := range list {
		infos = append(infos, toolInfo{Name: t.Name(), Description: t.Description(), InputSchema: t.InputSchema()})
	}
	return c.JSON(http.StatusOK, map[string]any{"tools": infos})
}

type runToolResponse struct {
	Output  string              `json:"output"`
	Success bool                `json:"success"`
	Code    apperrors.ErrorCode `json:"code"`
}

// RunTool runs one tool for the token's session. The body is the tool's JSON
// input. Tool failures are still 200: the output is what the caller hears.
// POST /api/v1/tools/:name
func (s *APIV1Service) RunTool(c echo.Context) error {
	name := c.Param("name")
	tool, ok := s.Tools.Get(name)
	if !ok {
		return apperrors.ToolNotFound(name)
	}
	sess, err := s.liveSession(c)
	if err != nil {
		return err
	}

	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxToolInputBytes+1))
	if err != nil {
		return apperrors.InvalidArgument("failed to read tool input")
	}
	if len(body) > maxToolInputBytes {
		return apperrors.InvalidArgument("tool input too large")
	}

	_, ctx := requestContext(c, sess.ID(), name)
	ctx = tools.WithSession(ctx, sess)
	result := s.Executor.Execute(ctx, tool, string(body))

	return c.JSON(http.StatusOK, runToolResponse{Output: result.Output, Success: result.Success, Code: result.Code})
}

// intQueryParam parses an optional positive integer query parameter, capped at ceiling.
func intQueryParam(c echo.Context, name string, def, ceiling int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, apperrors.InvalidArgument(name + " must be a positive integer")
	}
	if n > ceiling {
		n = ceiling
	}
	return n, nil
}
