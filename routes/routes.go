package routes

import (
	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-spotscout/handlers"
	"go-spotscout/intel"
	"go-spotscout/ranking"
)

func SetupRouter(firestoreClient *firestore.Client, pipeline *ranking.Pipeline, engine *intel.Engine) *gin.Engine {
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Hello, welcome to SpotScout!",
		})
	})

	// api routes
	api := r.Group("/api/spotscout")
	{
		api.GET("/discover", func(c *gin.Context) {
			handlers.DiscoverHandler(c, pipeline)
		})
		api.GET("/spots/:id/intel", func(c *gin.Context) {
			handlers.SpotIntelHandler(c, firestoreClient, engine)
		})
		api.POST("/checkins/notify", func(c *gin.Context) {
			handlers.CheckinNotifyHandler(c, firestoreClient, engine)
		})
	}

	return r
}
