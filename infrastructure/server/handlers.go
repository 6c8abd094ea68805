package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"cherry-ai/application"
	"cherry-ai/domain"
)

// internalErrorMessage is the only error detail clients see for pipeline failures.
const internalErrorMessage = "An error occurred while processing your request"

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"The user's question."`
}

// QueryResponse is returned by POST /api/query on success.
type QueryResponse struct {
	Answer        string        `json:"answer" jsonschema_description:"The model's answer."`
	RelevantLinks []domain.Link `json:"relevantLinks" jsonschema_description:"Up to 5 deduplicated source links."`
}

// ErrorResponse is returned on any failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

type handler struct {
	svc ChatService
}

func (h *handler) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body must be JSON with a query field"})
		return
	}

	msg, err := h.svc.Ask(c.Request.Context(), req.Query)
	if err != nil {
		if errors.Is(err, application.ErrEmptyQuery) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: internalErrorMessage})
		return
	}

	links := msg.RelevantLinks
	if links == nil {
		links = []domain.Link{}
	}
	c.JSON(http.StatusOK, QueryResponse{Answer: msg.Answer, RelevantLinks: links})
}

func (h *handler) history(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.svc.History()})
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) schema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"request":  generateSchema[QueryRequest](),
		"response": generateSchema[QueryResponse](),
		"error":    generateSchema[ErrorResponse](),
	})
}

// generateSchema creates a JSON schema for the specified type T.
func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}
