package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports that the process is accepting requests. It does not
// consult downstream dependencies.
func HealthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}
