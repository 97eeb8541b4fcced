package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// jsonResponse is the uniform envelope of every API response.
type jsonResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func respondData(ctx echo.Context, code int, data interface{}) error {
	return ctx.JSON(code, jsonResponse{Success: true, Data: data})
}

func respondMessage(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusOK, jsonResponse{Success: true, Message: msg})
}
