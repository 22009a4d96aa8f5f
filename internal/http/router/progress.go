package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
)

func ProgressRouter(router *gin.RouterGroup, handler *handler.ProgressHandler) {
	router.GET("", handler.Analytics)
	router.GET("/recommendations", handler.Recommendations)
	router.GET("/history", handler.History)
}
