package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes a free-form JSON object body. Card readers in the field
// send loosely typed payloads, so handlers coerce fields themselves instead
// of binding to rigid structs. An unreadable or empty body yields the
// uniform 400 response.
func bindJSON(c *gin.Context) (map[string]any, bool) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil || len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid or missing JSON"})
		return nil, false
	}
	return data, true
}

func getString(data map[string]any, key string) string {
	if v, ok := data[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// toFloat coerces a decoded JSON value to float64. Numbers pass through,
// numeric strings are parsed, anything else fails.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// toInt coerces a decoded JSON value to int64, truncating fractional
// amounts the way the readers' firmware does.
func toInt(v any) (int64, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int64(f), true
}
