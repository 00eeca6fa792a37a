package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// handleChat answers one customer message through the AI responder.
func (s *Server) handleChat(c *gin.Context) {
	if s.responder == nil {
		errJSON(c, http.StatusServiceUnavailable, "ai responder is not configured")
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	reply, err := s.responder.Respond(c.Request.Context(), req.Message)
	if err != nil {
		errJSON(c, http.StatusBadGateway, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
