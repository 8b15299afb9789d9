package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	directorydomain "github.com/househelp/househelp/internal/directory/domain"
	leaddomain "github.com/househelp/househelp/internal/lead/domain"
	reviewdomain "github.com/househelp/househelp/internal/review/domain"
)

func (s *Server) GetWorker(c *gin.Context) {
	resp, err := s.directorySvc.GetWorkerProfile(c.Request.Context(), directorydomain.GetWorkerProfileRequest{
		CallerID: callerID(c),
		WorkerID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type submitReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Tags    string `json:"tags"`
}

func (s *Server) SubmitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reviewSvc.Submit(c.Request.Context(), reviewdomain.SubmitReviewRequest{
		RequesterID: callerID(c),
		WorkerID:    strings.TrimSpace(c.Param("id")),
		Rating:      req.Rating,
		Comment:     req.Comment,
		Tags:        req.Tags,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) ListWorkerReviews(c *gin.Context) {
	resp, err := s.reviewSvc.ListByWorker(c.Request.Context(), reviewdomain.ListReviewsRequest{
		WorkerID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListWorkerLeads(c *gin.Context) {
	resp, err := s.leadSvc.ListForWorker(c.Request.Context(), leaddomain.ListLeadsRequest{
		WorkerID: strings.TrimSpace(c.Param("id")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
