package httpapi

import (
	"github.com/gin-gonic/gin"
)

const (
	errResourceNotFound = "resource not found"
	errMalformedBody    = "malformed request body"
	errInternal         = "internal server error"
)

// respond writes the success envelope {"data": ...}.
func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"data": data})
}

// fail writes the error envelope {"err": "..."} and stops the chain.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"err": msg})
}
