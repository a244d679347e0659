package host

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plugsetup/internal/core"
	"plugsetup/pkg/schema"
)

// Handlers adapts dispatcher operations to HTTP. Operation outcomes travel
// in the Result body with status 200; only malformed requests get a 4xx.
type Handlers struct {
	dispatcher *core.Dispatcher
	logger     core.Logger
}

// NewHandlers creates the HTTP handler set over a dispatcher.
func NewHandlers(dispatcher *core.Dispatcher, logger core.Logger) *Handlers {
	return &Handlers{dispatcher: dispatcher, logger: logger}
}

// beginResponse wraps the operation result with the session id so callers
// that let the server mint the id can learn it.
type beginResponse struct {
	SessionID string      `json:"session_id"`
	Result    core.Result `json:"result"`
}

// sessionView is the read-only session snapshot for audit queries.
type sessionView struct {
	SessionID string   `json:"session_id"`
	PluginID  string   `json:"plugin_id"`
	Completed bool     `json:"completed"`
	Mutations int      `json:"mutations"`
	Fields    []string `json:"collected_fields"`
}

func (h *Handlers) begin(c *gin.Context) {
	var req core.BeginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.SessionID == "" {
		id, err := schema.NewSessionID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		req.SessionID = id
	}

	res := h.dispatcher.Begin(c.Request.Context(), req)
	c.JSON(http.StatusOK, beginResponse{SessionID: req.SessionID, Result: res})
}

func (h *Handlers) getSession(c *gin.Context) {
	session := h.dispatcher.Session(c.Param("id"))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session " + c.Param("id")})
		return
	}

	c.JSON(http.StatusOK, sessionView{
		SessionID: session.ID,
		PluginID:  session.PluginID,
		Completed: session.Completed,
		Mutations: len(session.Mutations),
		Fields:    session.CollectedFieldNames(),
	})
}

func (h *Handlers) ask(c *gin.Context) {
	var req core.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Ask(c.Request.Context(), req))
}

func (h *Handlers) validateKey(c *gin.Context) {
	var req core.ValidateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.ValidateKey(c.Request.Context(), req))
}

func (h *Handlers) installDependency(c *gin.Context) {
	var req core.InstallDependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.InstallDependency(c.Request.Context(), req))
}

func (h *Handlers) testConnection(c *gin.Context) {
	var req core.TestConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.TestConnection(c.Request.Context(), req))
}

func (h *Handlers) saveConfig(c *gin.Context) {
	var req core.SaveConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.SaveConfig(c.Request.Context(), req))
}

func (h *Handlers) complete(c *gin.Context) {
	var req core.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Complete(c.Request.Context(), req))
}

func (h *Handlers) rollback(c *gin.Context) {
	var req core.RollbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.dispatcher.Rollback(c.Request.Context(), req))
}
