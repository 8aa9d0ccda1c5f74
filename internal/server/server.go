package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/vitalgraph/mediq/internal/feedback"
	"github.com/vitalgraph/mediq/internal/graph"
	"github.com/vitalgraph/mediq/internal/llm"
	"github.com/vitalgraph/mediq/internal/qa"
	"github.com/vitalgraph/mediq/internal/session"
)

// Server wires the QA pipeline and supporting stores behind the HTTP API.
type Server struct {
	qa       *qa.Service
	graph    *graph.Service
	registry *llm.Registry
	feedback *feedback.Store
	sessions *session.Store
	log      *slog.Logger
}

func New(qaSvc *qa.Service, graphSvc *graph.Service, registry *llm.Registry, fb *feedback.Store, sessions *session.Store, log *slog.Logger) *Server {
	return &Server{
		qa:       qaSvc,
		graph:    graphSvc,
		registry: registry,
		feedback: fb,
		sessions: sessions,
		log:      log,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(corsMiddleware())

	r.GET("/", s.Root)
	r.GET("/health", s.Health)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/query", s.ProcessQuery)
		v1.POST("/query/stream", s.ProcessQueryStream)
		v1.GET("/query/examples", s.ExampleQueries)

		v1.GET("/kg/node/:node_id", s.GetNode)
		v1.GET("/kg/search", s.SearchNodes)
		v1.GET("/kg/graph", s.GetGraphData)
		v1.GET("/kg/stats", s.GetGraphStats)
		v1.GET("/kg/types", s.GetNodeTypes)
		v1.GET("/kg/relationships", s.GetRelationshipTypes)

		v1.GET("/settings/llm/status", s.LLMStatus)
		v1.POST("/settings/llm/update", s.UpdateLLM)
		v1.POST("/settings/llm/test", s.TestLLM)

		v1.POST("/feedback", s.SubmitFeedback)
		v1.GET("/feedback/stats", s.FeedbackStats)

		v1.POST("/sessions", s.SaveSession)
		v1.GET("/sessions/:user_id", s.ListSessions)
		v1.GET("/sessions/:user_id/:session_id", s.GetSession)
		v1.DELETE("/sessions/:user_id/:session_id", s.DeleteSession)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "healthy",
		"service": "MedIQ",
		"version": "1.0.0",
	})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(200, gin.H{
		"status": "healthy",
		"services": gin.H{
			"api":    "up",
			"kg":     s.graph.Connected(),
			"vector": true,
		},
	})
}
