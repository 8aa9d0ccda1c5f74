package server

import (
	"net/http"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNode(t *testing.T) {
	driver := &stubDriver{results: map[string]neo4j.EagerResult{
		"AS neighbors": {Records: []*neo4j.Record{{
			Keys: []string{"name", "labels", "neighbors"},
			Values: []interface{}{
				"流行性感冒", []interface{}{"Disease"},
				[]interface{}{map[string]interface{}{
					"name":   "发热",
					"labels": []interface{}{"Symptom"},
					"rel":    "has_symptom",
					"out":    true,
				}},
			},
		}}},
	}}
	_, r := newTestServer(t, driver)

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/node/流行性感冒", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "流行性感冒")
	assert.Contains(t, w.Body.String(), "发热")
}

func TestGetNodeNotFound(t *testing.T) {
	_, r := newTestServer(t, &stubDriver{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/node/不存在的节点", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "未找到")
}

func TestSearchNodesRequiresKeyword(t *testing.T) {
	_, r := newTestServer(t, &stubDriver{})

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/search", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchNodes(t *testing.T) {
	driver := &stubDriver{results: map[string]neo4j.EagerResult{
		"labels(n) AS labels": {Records: []*neo4j.Record{{
			Keys:   []string{"name", "labels"},
			Values: []interface{}{"流行性感冒", []interface{}{"Disease"}},
		}}},
	}}
	_, r := newTestServer(t, driver)

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/search?q=感冒", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Total int    `json:"total"`
		Query string `json:"query"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, "感冒", body.Query)
}

func TestSearchNodesClampsLimit(t *testing.T) {
	driver := &stubDriver{}
	_, r := newTestServer(t, driver)

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/search?q=感冒&limit=9999", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, driver.lastParams["limit"])
}

func TestGetGraphStats(t *testing.T) {
	driver := &stubDriver{results: map[string]neo4j.EagerResult{
		"(n:Disease)": {Records: []*neo4j.Record{{Keys: []string{"count"}, Values: []interface{}{int64(100)}}}},
		"(n:Symptom)": {Records: []*neo4j.Record{{Keys: []string{"count"}, Values: []interface{}{int64(40)}}}},
		"()-[r]->()":  {Records: []*neo4j.Record{{Keys: []string{"count"}, Values: []interface{}{int64(500)}}}},
	}}
	_, r := newTestServer(t, driver)

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/stats", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		TotalNodes         float64            `json:"total_nodes"`
		TotalRelationships float64            `json:"total_relationships"`
		NodeTypes          map[string]float64 `json:"node_types"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, float64(140), body.TotalNodes)
	assert.Equal(t, float64(500), body.TotalRelationships)
	assert.Equal(t, float64(100), body.NodeTypes["Disease"])
	assert.NotContains(t, body.NodeTypes, "total_relationships")
}

func TestGetNodeTypes(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/types", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Types []map[string]interface{} `json:"types"`
	}
	decodeBody(t, w, &body)
	assert.Len(t, body.Types, 8)
	assert.Equal(t, "Disease", body.Types[0]["id"])
}

func TestGetRelationshipTypes(t *testing.T) {
	_, r := newTestServer(t, nil)

	w := doJSON(t, r, http.MethodGet, "/api/v1/kg/relationships", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Types []map[string]interface{} `json:"types"`
	}
	decodeBody(t, w, &body)
	assert.Len(t, body.Types, 6)
	assert.Equal(t, "HAS_SYMPTOM", body.Types[0]["id"])
}
