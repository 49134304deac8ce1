package store

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contractx "deckpilot/pipeline/contract"
)

// NewStagingRouter exposes the bridge over one local HTTP GET: the response
// body is the freshly formatted record set as JSON, and serving it overwrites
// the CSV cache as a side effect.
func NewStagingRouter(store contractx.Store) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/records", func(c *gin.Context) {
		records, err := store.Refresh(c.Request.Context())
		if err != nil {
			c.String(http.StatusBadGateway, "could not stage records: %v", err)
			return
		}
		c.JSON(http.StatusOK, records)
	})

	return router
}
