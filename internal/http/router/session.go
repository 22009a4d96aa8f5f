package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
)

func SessionRouter(router *gin.RouterGroup, handler *handler.SessionHandler) {
	router.POST("", handler.Create)
	router.GET("/:sessionID", handler.Get)
	router.POST("/:sessionID/messages", handler.AddMessage)
	router.GET("/:sessionID/messages", handler.History)
	router.POST("/:sessionID/pause", handler.Pause)
	router.POST("/:sessionID/resume", handler.Resume)
	router.POST("/:sessionID/end", handler.End)
}
