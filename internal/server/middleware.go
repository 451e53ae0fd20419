package server

import (
	"github.com/USA-RedDragon/zcash-rcli/internal/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func applyMiddleware(r *gin.Engine, config *config.Config, otelComponent string, tp trace.TracerProvider) {
	r.Use(gin.Recovery())

	// CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
	if len(config.Watch.Metrics.CORSHosts) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.Watch.Metrics.CORSHosts
	}
	r.Use(cors.New(corsConfig))

	if config.Watch.Tracing.Enabled {
		r.Use(otelgin.Middleware(otelComponent, otelgin.WithTracerProvider(tp)))
		r.Use(tracingAttributes())
	}
}

func tracingAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			span.SetAttributes(
				attribute.String("http.method", c.Request.Method),
				attribute.String("http.path", c.Request.URL.Path),
			)
		}
		c.Next()
	}
}
