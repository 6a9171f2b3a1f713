package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/services"
)

type VocabularyHandler struct {
	vocabulary services.VocabularyService
	log        *logger.Logger
}

func NewVocabularyHandler(vocabulary services.VocabularyService, baseLog *logger.Logger) *VocabularyHandler {
	handlerLog := baseLog.With("handler", "VocabularyHandler")
	return &VocabularyHandler{vocabulary: vocabulary, log: handlerLog}
}

type resolveRequest struct {
	Term  string `json:"term"`
	Exact bool   `json:"exact"`
}

type resolveResponse struct {
	Context   string `json:"context"`
	Term      string `json:"term"`
	ConceptID int64  `json:"concept_id"`
	Unknown   bool   `json:"unknown"`
}

// ResolveTerm resolves one raw term within a named vocabulary context. A miss
// is a 200 with the context's sentinel and unknown=true, never an error.
func (vh *VocabularyHandler) ResolveTerm(c *gin.Context) {
	context := c.Param("context")

	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	resolve := vh.vocabulary.Resolve
	if req.Exact {
		resolve = vh.vocabulary.ResolveExact
	}
	conceptID, err := resolve(context, req.Term)
	if err != nil {
		RespondError(c, http.StatusNotFound, "unknown_context", fmt.Errorf("vocabulary context %q is not registered", context))
		return
	}

	RespondOK(c, resolveResponse{
		Context:   context,
		Term:      req.Term,
		ConceptID: int64(conceptID),
		Unknown:   vh.vocabulary.IsUnknown(context, conceptID),
	})
}

func (vh *VocabularyHandler) ListContexts(c *gin.Context) {
	RespondOK(c, gin.H{"contexts": vh.vocabulary.Contexts()})
}
