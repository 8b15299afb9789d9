package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bgvdomain "github.com/househelp/househelp/internal/bgv/domain"
)

type createBGVRequest struct {
	WorkerID         string `json:"worker_id"`
	PaymentReference string `json:"payment_reference"`
	Amount           int64  `json:"amount"`
}

func (s *Server) CreateBGV(c *gin.Context) {
	var req createBGVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bgvSvc.Create(c.Request.Context(), bgvdomain.CreateBGVRequest{
		RequesterID:      callerID(c),
		WorkerID:         req.WorkerID,
		PaymentReference: req.PaymentReference,
		Amount:           req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) GetBGV(c *gin.Context) {
	resp, err := s.bgvSvc.Get(c.Request.Context(), bgvdomain.GetBGVRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		RequesterID: callerID(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBGVStatusRequest struct {
	Status    string `json:"status"`
	ReportURL string `json:"report_url"`
}

func (s *Server) UpdateBGVStatus(c *gin.Context) {
	var req updateBGVStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.bgvSvc.UpdateStatus(c.Request.Context(), bgvdomain.UpdateBGVStatusRequest{
		ID:        strings.TrimSpace(c.Param("id")),
		Status:    req.Status,
		ReportURL: req.ReportURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
