package handlers

import (
	"strconv"

	"github.com/alexparks333/AlexPipeline/pkg/response"
	"github.com/gin-gonic/gin"
)

// uintParam parses a numeric path parameter, writing a 400 response when it is malformed.
func uintParam(c *gin.Context, name, label string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid "+label)
		return 0, false
	}
	return uint(id), true
}
