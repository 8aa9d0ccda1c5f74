package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitalgraph/mediq/internal/model"
	"github.com/vitalgraph/mediq/internal/qa"
)

// ProcessQuery answers one medical question with a structured response.
func (s *Server) ProcessQuery(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := s.qa.Process(c.Request.Context(), &req)
	if err != nil {
		s.log.Error("query processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询处理失败: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProcessQueryStream answers a question as a Server-Sent Events stream.
func (s *Server) ProcessQueryStream(c *gin.Context) {
	var req model.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	events, err := s.qa.ProcessStream(c.Request.Context(), &req)
	if err != nil {
		s.log.Error("stream processing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		writeEvent(w, ev)
		return true
	})
}

func writeEvent(w io.Writer, ev qa.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	w.Write([]byte("data: "))
	w.Write(data)
	w.Write([]byte("\n\n"))
}

// ExampleQueries returns canned questions for demos and smoke tests.
func (s *Server) ExampleQueries(c *gin.Context) {
	examples := []gin.H{
		{"id": 1, "query": "头痛两天了，可能是什么原因？什么情况需要就医？", "category": "症状咨询"},
		{"id": 2, "query": "偏头痛和紧张性头痛有什么区别？", "category": "疾病鉴别"},
		{"id": 3, "query": "布洛芬的用法用量和注意事项是什么？", "category": "用药指导"},
		{"id": 4, "query": "发烧38.5度，需要吃退烧药吗？", "category": "症状咨询"},
		{"id": 5, "query": "2型糖尿病的一线治疗药物是什么？", "category": "治疗方案"},
		{"id": 6, "query": "高血压患者的血压控制目标是多少？", "category": "疾病管理"},
		{"id": 7, "query": "感冒和流感有什么区别？如何治疗？", "category": "疾病鉴别"},
		{"id": 8, "query": "头痛伴发热和颈部僵硬是什么情况？", "category": "危险信号"},
		{"id": 9, "query": "糖尿病患者需要做哪些定期检查？", "category": "健康管理"},
		{"id": 10, "query": "奥司他韦什么时候服用效果最好？", "category": "用药指导"},
	}
	c.JSON(http.StatusOK, gin.H{"examples": examples, "total": len(examples)})
}
