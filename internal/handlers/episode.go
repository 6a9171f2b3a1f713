package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oncobridge/omop-backend/internal/logger"
	"github.com/oncobridge/omop-backend/internal/services"
)

type EpisodeHandler struct {
	episodes services.EpisodeService
	log      *logger.Logger
}

func NewEpisodeHandler(episodes services.EpisodeService, baseLog *logger.Logger) *EpisodeHandler {
	handlerLog := baseLog.With("handler", "EpisodeHandler")
	return &EpisodeHandler{episodes: episodes, log: handlerLog}
}

func personIDParam(c *gin.Context) (int64, bool) {
	raw := c.Param("person_id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondError(c, http.StatusBadRequest, "invalid_person_id", err)
		return 0, false
	}
	return id, true
}

func (eh *EpisodeHandler) GetConditionEpisodes(c *gin.Context) {
	personID, ok := personIDParam(c)
	if !ok {
		return
	}
	episodes, err := eh.episodes.ConditionEpisodes(c.Request.Context(), personID)
	if err != nil {
		eh.log.Error("Failed to load condition episodes", "person_id", personID, "error", err)
		RespondError(c, http.StatusInternalServerError, "episode_query_failed", err)
		return
	}
	RespondOK(c, gin.H{"episodes": episodes})
}

func (eh *EpisodeHandler) GetSystemicTherapyEpisodes(c *gin.Context) {
	personID, ok := personIDParam(c)
	if !ok {
		return
	}
	episodes, err := eh.episodes.SystemicTherapyEpisodes(c.Request.Context(), personID)
	if err != nil {
		eh.log.Error("Failed to load systemic therapy episodes", "person_id", personID, "error", err)
		RespondError(c, http.StatusInternalServerError, "episode_query_failed", err)
		return
	}
	RespondOK(c, gin.H{"episodes": episodes})
}

func (eh *EpisodeHandler) GetAllAgents(c *gin.Context) {
	personID, ok := personIDParam(c)
	if !ok {
		return
	}
	agents, err := eh.episodes.AllAgents(c.Request.Context(), personID)
	if err != nil {
		eh.log.Error("Failed to load agents", "person_id", personID, "error", err)
		RespondError(c, http.StatusInternalServerError, "episode_query_failed", err)
		return
	}
	RespondOK(c, gin.H{"agents": agents})
}
