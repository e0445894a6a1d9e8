package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/question-bank/internal/domain/questionbank"
)

const healthText = "Question bank API is running"

// Handler wires the HTTP transport to the question bank service.
type Handler struct {
	svc    questionbank.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc questionbank.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

// Query looks up a question. GET reads the query string, POST reads a JSON or
// form body. Logical outcomes are always HTTP 200 with a body code; only a
// bank load failure produces HTTP 500.
func (h *Handler) Query(c *gin.Context) {
	var req questionbank.Request
	if err := bindQueryRequest(c, &req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	res, err := h.svc.Query(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("question query failed", "request_id", requestID(c), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":  questionbank.CodeServerError,
			"msg":   questionbank.MsgServerError,
			"error": errMessage(err),
		})
		return
	}

	if claims, ok := getClaims(c); ok {
		h.logger.Debug("question query served", "request_id", requestID(c), "code", res.Code, "subject", claims.Subject)
	}
	c.JSON(http.StatusOK, res.Envelope())
}

// Health answers the plain-text probe served at the root path.
func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, healthText)
}

// Liveness answers JSON health checks.
func (h *Handler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func bindQueryRequest(c *gin.Context, req *questionbank.Request) error {
	if c.Request.Method == http.MethodGet {
		return c.ShouldBindQuery(req)
	}
	// an empty body is the same as a body without a title
	if err := c.ShouldBind(req); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
