package handlers

import (
	"chatrouter/internal/app/domain/participants"
	"chatrouter/internal/app/infrastructure/config"
	"chatrouter/pkg/logger"
	"github.com/gin-gonic/gin"
	"net/http"
	"sort"
)

type Participants interface {
	Len() int
	Snapshot() []participants.Record
}

type Handlers struct {
	log          logger.Logger
	manager      *config.Manager
	participants Participants
}

func New(log logger.Logger, manager *config.Manager, participants Participants) *Handlers {
	return &Handlers{
		log:          log,
		manager:      manager,
		participants: participants,
	}
}

func (h *Handlers) HealthzHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handlers) ParticipantsHandler(c *gin.Context) {
	records := h.participants.Snapshot()
	sort.Slice(records, func(i, j int) bool {
		return records[i].LastSeen.After(records[j].LastSeen)
	})

	c.JSON(http.StatusOK, gin.H{
		"channel":      h.manager.Get().Twitch.Channel,
		"count":        len(records),
		"participants": records,
	})
}
