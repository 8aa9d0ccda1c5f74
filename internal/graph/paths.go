package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitalgraph/mediq/internal/model"
)

const (
	maxPathEntities    = 5
	maxContextEntities = 3
	fieldTruncateRunes = 200
)

// nodeColors keys the visualisation palette by node type.
var nodeColors = map[string]string{
	"Disease":    "#ef4444",
	"Symptom":    "#f97316",
	"Drug":       "#22c55e",
	"Food":       "#eab308",
	"Check":      "#3b82f6",
	"Department": "#8b5cf6",
	"Cure":       "#14b8a6",
	"Producer":   "#6366f1",
}

func truncateField(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// PathsForEntities builds explanatory subgraphs for the first few resolved
// entities: a disease-centred path when the entity matches a disease, a
// symptom-centred path otherwise.
func (s *Service) PathsForEntities(ctx context.Context, entities []string) []model.KGPath {
	if !s.connected {
		return nil
	}

	var paths []model.KGPath
	for _, entity := range entities {
		if len(paths) >= maxPathEntities {
			break
		}

		if info := s.FullDiseaseInfo(ctx, entity); info != nil && info.Description != "" {
			paths = append(paths, diseasePath(entity, info))
			continue
		}

		if diseases := s.DiseasesBySymptom(ctx, entity); len(diseases) > 0 {
			paths = append(paths, symptomPath(entity, diseases))
		}
	}

	if len(paths) > maxPathEntities {
		paths = paths[:maxPathEntities]
	}
	return paths
}

func diseasePath(entity string, info *DiseaseInfo) model.KGPath {
	diseaseID := "disease_" + entity
	nodes := []model.KGNode{{
		ID:    diseaseID,
		Label: info.Name,
		Type:  "Disease",
		Properties: map[string]string{
			"description": info.Description,
			"cause":       info.Cause,
			"prevent":     info.Prevent,
		},
	}}
	var edges []model.KGEdge

	for _, symptom := range head(info.Symptoms, 5) {
		nodes = append(nodes, model.KGNode{
			ID: "symptom_" + symptom, Label: symptom, Type: "Symptom", Properties: map[string]string{},
		})
		edges = append(edges, model.KGEdge{
			Source: diseaseID, Target: "symptom_" + symptom, Type: "has_symptom",
			Properties: map[string]string{"name": "症状"},
		})
	}

	allDrugs := append(append([]string{}, info.CommonDrugs...), info.RecommendedDrugs...)
	for _, drug := range head(allDrugs, 3) {
		nodes = append(nodes, model.KGNode{
			ID: "drug_" + drug, Label: drug, Type: "Drug", Properties: map[string]string{},
		})
		edges = append(edges, model.KGEdge{
			Source: diseaseID, Target: "drug_" + drug, Type: "common_drug",
			Properties: map[string]string{"name": "常用药品"},
		})
	}

	return model.KGPath{Nodes: nodes, Edges: edges, RelevanceScore: 0.9, Source: "neo4j", Confidence: 0.9}
}

func symptomPath(entity string, diseases []string) model.KGPath {
	symptomID := "symptom_" + entity
	nodes := []model.KGNode{{
		ID: symptomID, Label: entity, Type: "Symptom", Properties: map[string]string{},
	}}
	var edges []model.KGEdge

	for _, disease := range head(diseases, 5) {
		nodes = append(nodes, model.KGNode{
			ID: "disease_" + disease, Label: disease, Type: "Disease", Properties: map[string]string{},
		})
		edges = append(edges, model.KGEdge{
			Source: "disease_" + disease, Target: symptomID, Type: "has_symptom",
			Properties: map[string]string{"name": "症状"},
		})
	}

	return model.KGPath{Nodes: nodes, Edges: edges, RelevanceScore: 0.8, Source: "neo4j", Confidence: 0.8}
}

// ContextForEntities renders structured disease records as a bounded
// natural-language block for prompting. Free-text fields are truncated at
// 200 runes.
func (s *Service) ContextForEntities(ctx context.Context, entities []string) string {
	if !s.connected {
		return ""
	}

	var parts []string
	for _, entity := range head(entities, maxContextEntities) {
		if info := s.FullDiseaseInfo(ctx, entity); info != nil && info.Description != "" {
			parts = append(parts, renderDiseaseContext(info))
			continue
		}
		if diseases := s.DiseasesBySymptom(ctx, entity); len(diseases) > 0 {
			part := fmt.Sprintf("\n【症状：%s】\n可能相关的疾病：%s\n", entity, strings.Join(head(diseases, 10), ", "))
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n")
}

func renderDiseaseContext(info *DiseaseInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n【%s】\n", info.Name)
	if info.Description != "" {
		fmt.Fprintf(&b, "简介：%s\n", truncateField(info.Description, fieldTruncateRunes))
	}
	if len(info.Symptoms) > 0 {
		fmt.Fprintf(&b, "症状：%s\n", strings.Join(head(info.Symptoms, 10), ", "))
	}
	if info.Cause != "" {
		fmt.Fprintf(&b, "病因：%s\n", truncateField(info.Cause, fieldTruncateRunes))
	}
	if info.Prevent != "" {
		fmt.Fprintf(&b, "预防：%s\n", truncateField(info.Prevent, fieldTruncateRunes))
	}
	if len(info.Departments) > 0 {
		fmt.Fprintf(&b, "就诊科室：%s\n", strings.Join(info.Departments, ", "))
	}
	if len(info.CureWays) > 0 {
		fmt.Fprintf(&b, "治疗方法：%s\n", strings.Join(head(info.CureWays, 5), ", "))
	}
	if allDrugs := append(append([]string{}, info.CommonDrugs...), info.RecommendedDrugs...); len(allDrugs) > 0 {
		fmt.Fprintf(&b, "常用药物：%s\n", strings.Join(head(allDrugs, 8), ", "))
	}
	if len(info.DoEat) > 0 {
		fmt.Fprintf(&b, "宜吃食物：%s\n", strings.Join(head(info.DoEat, 5), ", "))
	}
	if len(info.NotEat) > 0 {
		fmt.Fprintf(&b, "忌吃食物：%s\n", strings.Join(head(info.NotEat, 5), ", "))
	}
	if len(info.Checks) > 0 {
		fmt.Fprintf(&b, "检查项目：%s\n", strings.Join(head(info.Checks, 5), ", "))
	}
	if len(info.Complications) > 0 {
		fmt.Fprintf(&b, "并发症：%s\n", strings.Join(head(info.Complications, 5), ", "))
	}
	return b.String()
}

// GraphData assembles a capped node/edge set for visualisation, starting
// from disease nodes and walking their outgoing relations.
func (s *Service) GraphData(ctx context.Context, limit int) model.GraphData {
	data := model.GraphData{Nodes: []model.GraphVizNode{}, Edges: []model.GraphVizEdge{}}
	if !s.connected {
		return data
	}

	diseaseNames := s.names(ctx, GraphDiseaseNamesQuery, map[string]interface{}{"limit": limit})
	if len(diseaseNames) == 0 {
		return data
	}

	result, err := s.driver.ExecuteQuery(ctx, GraphDiseaseRelationsQuery, map[string]interface{}{"disease_names": diseaseNames})
	if err != nil {
		s.log.Debug("graph data query failed", "error", err)
		return data
	}

	seen := map[string]bool{}
	addNode := func(id, label, nodeType string) {
		if seen[id] {
			return
		}
		seen[id] = true
		color, ok := nodeColors[nodeType]
		if !ok {
			color = "#6b7280"
		}
		data.Nodes = append(data.Nodes, model.GraphVizNode{ID: id, Label: label, Type: nodeType, Color: color})
	}

	for _, rec := range result.Records {
		dName, _ := recordString(rec, "d_name")
		nName, _ := recordString(rec, "n_name")
		relType, _ := recordString(rec, "rel_type")
		if dName == "" || nName == "" {
			continue
		}
		dType := firstOr(recordStrings(rec, "d_labels"), "Unknown")
		nType := firstOr(recordStrings(rec, "n_labels"), "Unknown")

		dID := "disease_" + dName
		nID := strings.ToLower(nType) + "_" + nName
		addNode(dID, dName, dType)
		addNode(nID, nName, nType)
		data.Edges = append(data.Edges, model.GraphVizEdge{Source: dID, Target: nID, Type: relType})
	}

	// Cap node count at the requested limit and drop dangling edges.
	if len(data.Nodes) > limit {
		data.Nodes = data.Nodes[:limit]
		allowed := map[string]bool{}
		for _, n := range data.Nodes {
			allowed[n.ID] = true
		}
		kept := data.Edges[:0]
		for _, e := range data.Edges {
			if allowed[e.Source] && allowed[e.Target] {
				kept = append(kept, e)
			}
		}
		data.Edges = kept
	}
	return data
}

func head(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func firstOr(items []string, fallback string) string {
	if len(items) > 0 {
		return items[0]
	}
	return fallback
}
