package ginx

import (
	"github.com/gin-gonic/gin"
)

// contextKey is an unexported type so values this package stores on a
// gin.Context can't collide with keys set by other packages.
type contextKey struct{}

// responseFormatKey stores which wire format ("json" or "xml") the
// current request was bound with, so the matching response is rendered
// in the same format.
var responseFormatKey = contextKey{}

func setResponseFormat(ctx *gin.Context, format string) {
	ctx.Set(responseFormatKey, format)
}

func getResponseFormat(ctx *gin.Context) string {
	format, exists := ctx.Get(responseFormatKey)
	if !exists {
		return "json"
	}
	if str, ok := format.(string); ok {
		return str
	}
	return "json"
}
