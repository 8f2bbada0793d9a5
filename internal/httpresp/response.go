package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the success half of the response envelope.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

func write(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func OK(c *gin.Context, message string, data any) {
	write(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data any) {
	write(c, http.StatusCreated, message, data)
}

func List[T any](c *gin.Context, message string, data []T) {
	if data == nil {
		data = []T{}
	}
	write(c, http.StatusOK, message, ListResponse[T]{
		Items: data,
		Total: len(data),
	})
}
