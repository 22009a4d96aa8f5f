package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
)

func ChatRouter(router *gin.RouterGroup, handler *handler.ChatHandler) {
	router.POST("/message", handler.Message)
	router.POST("/explain", handler.Explain)
	router.POST("/exam-question", handler.ExamQuestion)
}
