package router

import (
	"github.com/gin-gonic/gin"

	"togaftutor.app/tutor/internal/http/handler"
)

func IngestRouter(router *gin.RouterGroup, handler *handler.IngestHandler) {
	router.POST("/document", handler.Document)
	router.POST("/corpus", handler.Corpus)
	router.POST("/reset-collections", handler.ResetCollections)
}
