package pkg

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/fleetbase/internal/domain"
)

// ParseID reads the positive integer path parameter name.
func ParseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid "+name+": "+raw, nil)
	}
	return uint(id), nil
}

// ParseInt reads the integer path parameter name.
func ParseInt(c *gin.Context, name string) (int, error) {
	raw := c.Param(name)
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewAppError(domain.CodeValidation, "invalid "+name+": "+raw, nil)
	}
	return v, nil
}
