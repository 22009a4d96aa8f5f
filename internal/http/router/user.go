package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
)

func UserRouter(router *gin.RouterGroup, handler *handler.ProfileHandler) {
	router.POST("", handler.Create)
	router.GET("/:userID", handler.Get)
	router.DELETE("/:userID", handler.Delete)
	router.POST("/:userID/reset", handler.Reset)
	router.PUT("/:userID/proficiency", handler.UpdateProficiency)

	router.POST("/:userID/plans", handler.CreatePlan)
	router.GET("/:userID/plans/:planID", handler.PlanOverview)
	router.GET("/:userID/current-topic", handler.CurrentTopic)
	router.POST("/:userID/topics/:topicID/complete", handler.CompleteTopic)
	router.POST("/:userID/topics/:topicID/skip", handler.SkipTopic)
}
