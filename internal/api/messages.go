package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/relay"
)

type createMessageRequest struct {
	ChannelID     uint   `json:"channelId" binding:"required"`
	Content       string `json:"content" binding:"required"`
	MessageType   string `json:"messageType"`
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	CustomerEmail string `json:"customerEmail"`
	Metadata      string `json:"metadata"`
}

// handleCreateMessage persists a message and, for the outgoing direction,
// routes it through the channel's driver. The record survives a failed
// send; only the routing error is reported.
func (s *Server) handleCreateMessage(c *gin.Context) {
	var req createMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	msgType := req.MessageType
	if msgType == "" {
		msgType = models.MessageOutgoing
	}
	if msgType != models.MessageIncoming && msgType != models.MessageOutgoing {
		errJSON(c, http.StatusBadRequest, "invalid message type: "+msgType)
		return
	}

	msg := &models.Message{
		ChannelID:     req.ChannelID,
		Content:       req.Content,
		MessageType:   msgType,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Metadata:      req.Metadata,
	}
	if err := s.store.CreateMessage(msg); err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	if msgType == models.MessageOutgoing {
		if err := s.manager.RouteMessage(c.Request.Context(), msg); err != nil {
			if errors.Is(err, relay.ErrChannelInactive) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "message": msg})
				return
			}
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "message": msg})
			return
		}
	}

	c.JSON(http.StatusCreated, msg)
}

func (s *Server) handleActiveMessages(c *gin.Context) {
	msgs, err := s.store.ActiveMessages()
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (s *Server) handleMessagesByChannel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("channelId"), 10, 32)
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid channel id")
		return
	}

	msgs, err := s.store.MessagesByChannel(uint(id))
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// handleQueueStatus reports the count of messages still in status "new" as
// a proxy for buffer depth; the in-memory queue is not introspectable
// across processes.
func (s *Server) handleQueueStatus(c *gin.Context) {
	msgs, err := s.store.ActiveMessages()
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"depth":          len(msgs),
		"activeChannels": s.manager.ActiveCount(),
	})
}
