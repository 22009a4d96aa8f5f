package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
)

func SearchRouter(router *gin.RouterGroup, handler *handler.SearchHandler) {
	router.POST("", handler.Search)
	router.GET("/suggestions", handler.Suggestions)
	router.GET("/stats", handler.Stats)
}
