package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/relay"
	"github.com/alleyops/switchboard/internal/relay/driver"
)

// errJSON writes the uniform error envelope.
func errJSON(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func knownChannelType(typ string) bool {
	for _, t := range models.KnownChannelTypes {
		if t == typ {
			return true
		}
	}
	return false
}

type createChannelRequest struct {
	Name         string          `json:"name" binding:"required"`
	Type         string          `json:"type" binding:"required"`
	Credentials  json.RawMessage `json:"credentials" binding:"required"`
	Config       json.RawMessage `json:"config"`
	AutoActivate bool            `json:"autoActivate"`
}

// handleCreateChannel persists a new channel, inactive. With autoActivate
// set, credentials are validated and the channel goes live in the same
// request; a validation failure leaves the created channel inactive.
func (s *Server) handleCreateChannel(c *gin.Context) {
	var req createChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}
	if !knownChannelType(req.Type) {
		errJSON(c, http.StatusBadRequest, "unsupported channel type: "+req.Type)
		return
	}

	ch := &models.Channel{
		Name:        req.Name,
		Type:        req.Type,
		Credentials: string(req.Credentials),
		Config:      string(req.Config),
	}
	if err := s.store.CreateChannel(ch); err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	if req.AutoActivate {
		if err := s.manager.ActivateChannel(c.Request.Context(), ch.ID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "channel": ch})
			return
		}
		ch.IsActive = true
	}

	c.JSON(http.StatusCreated, ch)
}

func (s *Server) handleListChannels(c *gin.Context) {
	channels, err := s.store.ListChannels()
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, channels)
}

// handleActiveChannels reports the manager's live view, not the persisted
// flag; the two can diverge briefly during startup.
func (s *Server) handleActiveChannels(c *gin.Context) {
	c.JSON(http.StatusOK, s.manager.ActiveChannels())
}

type channelStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

func (s *Server) handleChannelStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid channel id")
		return
	}

	var req channelStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	ctx := c.Request.Context()
	if *req.IsActive {
		err = s.manager.ActivateChannel(ctx, uint(id))
	} else {
		err = s.manager.DeactivateChannel(ctx, uint(id))
	}
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"id": id, "isActive": *req.IsActive})
	case errors.Is(err, relay.ErrChannelNotFound):
		errJSON(c, http.StatusNotFound, err.Error())
	case errors.Is(err, relay.ErrInvalidCredentials):
		errJSON(c, http.StatusBadRequest, err.Error())
	default:
		errJSON(c, http.StatusInternalServerError, err.Error())
	}
}

type testChannelRequest struct {
	Credentials json.RawMessage `json:"credentials" binding:"required"`
}

// handleTestChannel runs the structural credential check for a channel
// type without persisting anything.
func (s *Server) handleTestChannel(c *gin.Context) {
	typ := c.Param("type")

	var req testChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	d, err := driver.New(&models.Channel{Type: typ, Credentials: string(req.Credentials)})
	if err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"type":  typ,
		"valid": d.ValidateCredentials(c.Request.Context()),
	})
}
