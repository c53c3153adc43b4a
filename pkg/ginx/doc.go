// Package ginx adapts plain Go functions into gin.HandlerFunc values so
// status API handlers can declare their real argument and return types
// instead of doing ctx.ShouldBind/ctx.JSON bookkeeping by hand.
//
// Both JSON and XML are supported:
//   - JSON is the default.
//   - A request whose Content-Type contains "application/xml" or
//     "text/xml" is parsed as XML instead.
//   - The response (and any error response) is rendered as XML when the
//     request body was parsed as XML or the Accept header contains
//     "application/xml" or "text/xml", and as JSON otherwise.
//
// Seven handler shapes are recognized:
//
//	// with args, response and error
//	func(c *gin.Context, args *Args) (resp, error)
//
//	// with args, error only
//	func(c *gin.Context, args *Args) error
//
//	// with args, response only
//	func(c *gin.Context, args *Args) resp
//
//	// no args, response and error
//	func(c *gin.Context) (resp, error)
//
//	// no args, error only
//	func(c *gin.Context) error
//
//	// no args, response only
//	func(c *gin.Context) resp
//
//	// no args, no response
//	func(c *gin.Context)
//
// Usage:
//
//	router := gin.Default()
//
//	// with args, response and error
//	router.POST("/screens", ginx.Adapt5(func(c *gin.Context, args *AddScreenArgs) (*Screen, error) {
//	    return &Screen{...}, nil
//	}))
//
//	// with args, error only
//	router.DELETE("/screens/:id", ginx.Adapt4(func(c *gin.Context, args *RemoveScreenArgs) error {
//	    return nil
//	}))
//
//	// no args, response only
//	router.GET("/status", ginx.Adapt2(func(c *gin.Context) string {
//	    return "ok"
//	}))
package ginx
