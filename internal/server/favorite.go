package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	favoritedomain "github.com/househelp/househelp/internal/favorite/domain"
)

type addFavoriteRequest struct {
	WorkerID string `json:"worker_id"`
}

func (s *Server) AddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.favoriteSvc.Add(c.Request.Context(), favoritedomain.AddFavoriteRequest{
		UserID:   callerID(c),
		WorkerID: req.WorkerID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadySaved {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"data": resp})
}

func (s *Server) RemoveFavorite(c *gin.Context) {
	err := s.favoriteSvc.Remove(c.Request.Context(), favoritedomain.RemoveFavoriteRequest{
		UserID:   callerID(c),
		WorkerID: strings.TrimSpace(c.Param("workerId")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"removed": true}})
}

func (s *Server) ListFavorites(c *gin.Context) {
	resp, err := s.favoriteSvc.List(c.Request.Context(), favoritedomain.ListFavoritesRequest{
		UserID: callerID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
