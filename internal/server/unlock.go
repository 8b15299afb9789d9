package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	unlockdomain "github.com/househelp/househelp/internal/unlock/domain"
	"github.com/househelp/househelp/pkg/db/pagination"
)

type requestUnlockRequest struct {
	WorkerID         string `json:"worker_id"`
	PaymentReference string `json:"payment_reference"`
	Amount           int64  `json:"amount"`
}

func (s *Server) RequestUnlock(c *gin.Context) {
	var req requestUnlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.unlockSvc.RequestUnlock(c.Request.Context(), unlockdomain.RequestUnlockRequest{
		RequesterID:      callerID(c),
		WorkerID:         req.WorkerID,
		PaymentReference: req.PaymentReference,
		Amount:           req.Amount,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	status := http.StatusCreated
	if resp.AlreadyUnlocked {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"data": resp})
}

func (s *Server) ListUnlocks(c *gin.Context) {
	var query struct {
		pagination.Pagination
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.unlockSvc.ListByRequester(c.Request.Context(), unlockdomain.ListUnlocksRequest{
		RequesterID: callerID(c),
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
