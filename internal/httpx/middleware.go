package httpx

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("rid", rid)
		c.Writer.Header().Set("X-Request-ID", rid)
		c.Next()
	}
}

func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		rid, _ := c.Get("rid")
		log.Printf("[http] rid=%v %s %s status=%d dur=%s",
			rid, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// CORS lets the storefront SPA call the API from its own origin.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

// NewRouter returns a gin engine with the middleware every service shares.
func NewRouter(origins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(), CORS(origins))
	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	return r
}
