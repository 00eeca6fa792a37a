package api

import "github.com/gin-gonic/gin"

// registerRoutes sets up all API routes on the Gin router.
func (s *Server) registerRoutes(router *gin.Engine) {
	api := router.Group("/api")

	api.POST("/channels", s.handleCreateChannel)
	api.GET("/channels", s.handleListChannels)
	api.GET("/channels/active", s.handleActiveChannels)
	api.PATCH("/channels/:id/status", s.handleChannelStatus)
	api.POST("/channels/:type/test", s.handleTestChannel)

	api.POST("/messages", s.handleCreateMessage)
	api.GET("/messages/active", s.handleActiveMessages)
	api.GET("/messages/channel/:channelId", s.handleMessagesByChannel)
	api.GET("/messages/queue/status", s.handleQueueStatus)

	api.POST("/ai-config", s.handleCreateAIConfig)
	api.GET("/ai-config", s.handleListAIConfigs)

	api.POST("/training-documents", s.handleCreateTrainingDocument)
	api.GET("/training-documents", s.handleListTrainingDocuments)
	api.PATCH("/training-documents/:id/status", s.handleTrainingDocumentStatus)

	api.GET("/mcp-config", s.handleGetMCPConfig)
	api.PUT("/mcp-config", s.handlePutMCPConfig)

	api.GET("/make-config", s.handleGetMakeConfig)
	api.PUT("/make-config", s.handlePutMakeConfig)

	api.GET("/users/current", s.handleCurrentUser)

	api.POST("/chat", s.handleChat)
}
