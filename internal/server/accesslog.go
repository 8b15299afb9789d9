package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	unlockdomain "github.com/househelp/househelp/internal/unlock/domain"
)

// ListContactAccessLog returns the caller's own unlock attempts against
// one worker, newest first.
func (s *Server) ListContactAccessLog(c *gin.Context) {
	requesterID, err := snowflake.ParseString(callerID(c))
	if err != nil || requesterID == 0 {
		AbortWithError(c, unlockdomain.ErrInvalidID)
		return
	}
	workerID, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || workerID == 0 {
		AbortWithError(c, unlockdomain.ErrInvalidID)
		return
	}

	entries, err := s.accessLog.ListByPair(c.Request.Context(), requesterID, workerID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"entries": entries}})
}
