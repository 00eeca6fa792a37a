package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alleyops/switchboard/internal/models"
	"github.com/alleyops/switchboard/internal/store"
)

type aiConfigRequest struct {
	ModelType          string  `json:"modelType" binding:"required"`
	Temperature        float64 `json:"temperature"`
	APIKey             string  `json:"apiKey" binding:"required"`
	MaxTokens          int     `json:"maxTokens"`
	CustomInstructions string  `json:"customInstructions"`
}

func (s *Server) handleCreateAIConfig(c *gin.Context) {
	var req aiConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	cfg := &models.AIConfig{
		ModelType:          req.ModelType,
		Temperature:        req.Temperature,
		APIKey:             req.APIKey,
		MaxTokens:          req.MaxTokens,
		CustomInstructions: req.CustomInstructions,
	}
	if err := s.store.CreateAIConfig(cfg); err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

func (s *Server) handleListAIConfigs(c *gin.Context) {
	cfgs, err := s.store.ListAIConfigs()
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfgs)
}

type trainingDocumentRequest struct {
	FileName     string `json:"fileName" binding:"required"`
	FileType     string `json:"fileType" binding:"required"`
	TrainingMode string `json:"trainingMode" binding:"required"`
	Content      string `json:"content" binding:"required"`
	Metadata     string `json:"metadata"`
}

func (s *Server) handleCreateTrainingDocument(c *gin.Context) {
	var req trainingDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	doc := &models.TrainingDocument{
		FileName:     req.FileName,
		FileType:     req.FileType,
		TrainingMode: req.TrainingMode,
		Content:      req.Content,
		Metadata:     req.Metadata,
	}
	if err := s.store.CreateTrainingDocument(doc); err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (s *Server) handleListTrainingDocuments(c *gin.Context) {
	docs, err := s.store.ListTrainingDocuments()
	if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, docs)
}

type documentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) handleTrainingDocumentStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		errJSON(c, http.StatusBadRequest, "invalid document id")
		return
	}

	var req documentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdateTrainingDocumentStatus(uint(id), req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errJSON(c, http.StatusNotFound, err.Error())
			return
		}
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

func (s *Server) handleGetMCPConfig(c *gin.Context) {
	cfg, err := s.store.GetMCPConfig()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errJSON(c, http.StatusNotFound, err.Error())
			return
		}
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handlePutMCPConfig(c *gin.Context) {
	var cfg models.MCPConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpsertMCPConfig(&cfg); err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handleGetMakeConfig(c *gin.Context) {
	cfg, err := s.store.GetMakeConfig()
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			errJSON(c, http.StatusNotFound, err.Error())
			return
		}
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (s *Server) handlePutMakeConfig(c *gin.Context) {
	var cfg models.MakeConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		errJSON(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpsertMakeConfig(&cfg); err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// defaultUsername is the auto-provisioned dashboard account.
const defaultUsername = "admin"

// handleCurrentUser returns the dashboard user, creating the default
// account on first request. The password is never serialized.
func (s *Server) handleCurrentUser(c *gin.Context) {
	u, err := s.store.GetUserByUsername(defaultUsername)
	if errors.Is(err, store.ErrNotFound) {
		u = &models.User{Username: defaultUsername, Password: "admin"}
		if createErr := s.store.CreateUser(u); createErr != nil {
			errJSON(c, http.StatusInternalServerError, createErr.Error())
			return
		}
	} else if err != nil {
		errJSON(c, http.StatusInternalServerError, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        u.ID,
		"username":  u.Username,
		"avatarUrl": u.AvatarURL,
	})
}
