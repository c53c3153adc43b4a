package ginx

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// isXMLRequest reports whether the request body should be parsed as XML
// rather than JSON.
func isXMLRequest(ctx *gin.Context) bool {
	contentType := ctx.GetHeader("Content-Type")
	return strings.Contains(contentType, "application/xml") ||
		strings.Contains(contentType, "text/xml")
}

// bindArgs populates args from the request, trying in order: XML or JSON
// body (picked by Content-Type), URI params, query params, form. The
// first source that binds successfully wins; URI and query params are
// still layered on top of a successful body bind since a route can carry
// both a path id and a query-string filter at once.
func bindArgs(ctx *gin.Context, args interface{}) error {
	// Bind the body directly rather than gating on ContentLength, which
	// isn't always populated accurately by the client.
	if isXMLRequest(ctx) {
		if err := ctx.ShouldBindXML(args); err == nil {
			_ = ctx.ShouldBindUri(args)
			_ = ctx.ShouldBindQuery(args)
			setResponseFormat(ctx, "xml")
			return nil
		}
	} else {
		if err := ctx.ShouldBindJSON(args); err == nil {
			_ = ctx.ShouldBindUri(args)
			_ = ctx.ShouldBindQuery(args)
			setResponseFormat(ctx, "json")
			return nil
		}
	}

	if err := ctx.ShouldBindUri(args); err == nil {
		_ = ctx.ShouldBindQuery(args)
		setResponseFormat(ctx, "json")
		return nil
	}

	if err := ctx.ShouldBindQuery(args); err == nil {
		setResponseFormat(ctx, "json")
		return nil
	}

	setResponseFormat(ctx, "json")
	return ctx.ShouldBind(args)
}
