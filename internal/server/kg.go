package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetNode returns a node and its immediate neighbors, looked up by name.
func (s *Server) GetNode(c *gin.Context) {
	nodeID := c.Param("node_id")
	result := s.graph.NodeNeighbors(c.Request.Context(), nodeID)
	if result.Node.Label == "Not Found" {
		c.JSON(http.StatusNotFound, gin.H{"error": "节点 " + nodeID + " 未找到"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchNodes finds graph nodes by keyword, optionally filtered by type.
func (s *Server) SearchNodes(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q must not be empty"})
		return
	}

	var nodeTypes []string
	if types := c.Query("types"); types != "" {
		nodeTypes = strings.Split(types, ",")
	}
	limit := intQuery(c, "limit", 20, 1, 100)

	nodes := s.graph.SearchNodes(c.Request.Context(), q, nodeTypes, limit)
	c.JSON(http.StatusOK, gin.H{
		"nodes": nodes,
		"total": len(nodes),
		"query": q,
	})
}

// GetGraphData returns capped node and edge sets for visualization.
func (s *Server) GetGraphData(c *gin.Context) {
	limit := intQuery(c, "limit", 100, 50, 500)
	c.JSON(http.StatusOK, s.graph.GraphData(c.Request.Context(), limit))
}

// GetGraphStats reports full-database node and relationship counts.
func (s *Server) GetGraphStats(c *gin.Context) {
	stats := s.graph.Stats(c.Request.Context())

	var (
		totalNodes int64
		nodeTypes  = map[string]int64{}
	)
	for key, count := range stats {
		if key == "total_relationships" {
			continue
		}
		nodeTypes[key] = count
		totalNodes += count
	}

	c.JSON(http.StatusOK, gin.H{
		"total_nodes":         totalNodes,
		"total_relationships": stats["total_relationships"],
		"node_types":          nodeTypes,
		"relationship_types":  gin.H{},
	})
}

// GetNodeTypes lists the entity types present in the graph.
func (s *Server) GetNodeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types": []gin.H{
			{"id": "Disease", "label": "疾病", "color": "#ef4444", "description": "疾病实体，如偏头痛、糖尿病"},
			{"id": "Symptom", "label": "症状", "color": "#f97316", "description": "症状表现，如头痛、发热"},
			{"id": "Drug", "label": "药物", "color": "#22c55e", "description": "药物实体，如布洛芬、二甲双胍"},
			{"id": "Food", "label": "食物", "color": "#eab308", "description": "饮食相关，宜吃/忌吃食物"},
			{"id": "Check", "label": "检查", "color": "#3b82f6", "description": "检查项目，如血常规、CT"},
			{"id": "Department", "label": "科室", "color": "#8b5cf6", "description": "医院科室，如内科、外科"},
			{"id": "Cure", "label": "治疗", "color": "#14b8a6", "description": "治疗方法"},
			{"id": "Producer", "label": "生产商", "color": "#6366f1", "description": "药品生产厂商"},
		},
	})
}

// GetRelationshipTypes lists the relationship types present in the graph.
func (s *Server) GetRelationshipTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"types": []gin.H{
			{"id": "HAS_SYMPTOM", "label": "有症状", "description": "疾病与症状的关联"},
			{"id": "TREATS", "label": "治疗", "description": "药物用于治疗疾病"},
			{"id": "COVERS", "label": "涵盖", "description": "指南涵盖的疾病"},
			{"id": "DESCRIBES", "label": "描述", "description": "文献描述的实体"},
			{"id": "INDICATES", "label": "提示", "description": "危险信号提示的疾病"},
			{"id": "CONTRAINDICATED", "label": "禁忌", "description": "药物禁忌症"},
		},
	})
}

func intQuery(c *gin.Context, name string, def, lo, hi int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
