package httpx

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClampInt — ограничение значения v в диапазоне [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseLimit — читает limit из query; 0 или мусор — без ограничения.
func ParseLimit(c *gin.Context, maxLimit int) int {
	v, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || v <= 0 {
		return 0
	}
	return ClampInt(v, 1, maxLimit)
}
