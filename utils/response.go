package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// JSONResponse is the envelope every API handler writes. Code 0 means
// success; error codes follow a 5-digit scheme prefixed by the HTTP status.
type JSONResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success writes a 200 envelope with code 0.
func Success(ctx *gin.Context, data any) {
	ctx.JSON(http.StatusOK, JSONResponse{Code: 0, Message: "success", Data: data})
}

// Error writes an error envelope with the given HTTP status and app code.
func Error(ctx *gin.Context, status, code int, message string) {
	ctx.JSON(status, JSONResponse{Code: code, Message: message})
}
