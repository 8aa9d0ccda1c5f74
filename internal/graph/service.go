package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/errgroup"

	"github.com/vitalgraph/mediq/internal/model"
)

// fulltextIndex is the index probed before falling back to CONTAINS scans.
const fulltextIndex = "kg_fulltext"

// modifier words stripped from keywords before matching, to improve recall
// for phrases like 普通流感.
var keywordModifiers = []string{"普通", "常见", "季节性", "一般", "常规"}

// Service exposes the medical knowledge graph to the QA pipeline. Every call
// checks the connected flag first and degrades to empty results on failure;
// the graph being unreachable is never an error for callers.
type Service struct {
	driver    Driver
	connected bool
	log       *slog.Logger
}

// Connect attempts to reach the graph backend. A failed connection yields a
// disconnected service rather than an error.
func Connect(ctx context.Context, uri, user, password string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	d, err := NewNeo4jDriver(ctx, uri, user, password)
	if err != nil {
		log.Warn("failed to connect to Neo4j, graph features disabled", "uri", uri, "error", err)
		return &Service{log: log}
	}
	log.Info("connected to Neo4j", "uri", uri)
	return &Service{driver: d, connected: true, log: log}
}

// NewService wraps an existing driver; used by tests.
func NewService(driver Driver, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{driver: driver, connected: driver != nil, log: log}
}

func (s *Service) Connected() bool {
	return s.connected
}

func (s *Service) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	s.connected = false
	return s.driver.Close(ctx)
}

// names runs a query expected to return a single "name" column.
func (s *Service) names(ctx context.Context, query string, params map[string]interface{}) []string {
	result, err := s.driver.ExecuteQuery(ctx, query, params)
	if err != nil {
		s.log.Debug("graph query failed", "error", err)
		return nil
	}
	var out []string
	for _, rec := range result.Records {
		if name, ok := recordString(rec, "name"); ok {
			out = append(out, name)
		}
	}
	return out
}

func recordString(rec *neo4j.Record, key string) (string, bool) {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func recordStrings(rec *neo4j.Record, key string) []string {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return nil
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, it := range items {
		if str, ok := it.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func recordInt(rec *neo4j.Record, key string) int64 {
	v, ok := rec.Get(key)
	if !ok || v == nil {
		return 0
	}
	n, _ := v.(int64)
	return n
}

// DiseaseRecord holds the scalar properties of a Disease node.
type DiseaseRecord struct {
	Name        string
	Description string
	Cause       string
	Prevent     string
	CureTime    string
	CureProb    string
	EasyGet     string
}

// DiseaseInfo aggregates a disease record with all of its relations.
type DiseaseInfo struct {
	DiseaseRecord
	Symptoms         []string
	CommonDrugs      []string
	RecommendedDrugs []string
	DoEat            []string
	NotEat           []string
	RecommendedFoods []string
	Checks           []string
	Departments      []string
	CureWays         []string
	Complications    []string
}

func (s *Service) diseaseRecord(ctx context.Context, name string) *DiseaseRecord {
	if !s.connected {
		return nil
	}
	result, err := s.driver.ExecuteQuery(ctx, DiseaseInfoQuery, map[string]interface{}{"name": name})
	if err != nil || len(result.Records) == 0 {
		return nil
	}
	rec := result.Records[0]
	field := func(key string) string {
		v, _ := recordString(rec, key)
		return v
	}
	return &DiseaseRecord{
		Name:        field("name"),
		Description: field("description"),
		Cause:       field("cause"),
		Prevent:     field("prevent"),
		CureTime:    field("cure_time"),
		CureProb:    field("cure_prob"),
		EasyGet:     field("easy_get"),
	}
}

// FullDiseaseInfo returns a disease record together with all related
// entities, falling back to fuzzy matching when the exact name misses.
// Relation queries run concurrently.
func (s *Service) FullDiseaseInfo(ctx context.Context, name string) *DiseaseInfo {
	if !s.connected {
		return nil
	}

	record := s.diseaseRecord(ctx, name)
	if record == nil {
		matches := s.SearchDisease(ctx, name, 1)
		if len(matches) == 0 {
			return nil
		}
		name = matches[0]
		record = s.diseaseRecord(ctx, name)
		if record == nil {
			return nil
		}
	}

	info := &DiseaseInfo{DiseaseRecord: *record}
	params := map[string]interface{}{"name": name}

	relations := []struct {
		query string
		dst   *[]string
	}{
		{DiseaseSymptomsQuery, &info.Symptoms},
		{DiseaseCommonDrugsQuery, &info.CommonDrugs},
		{DiseaseRecommendedDrugsQuery, &info.RecommendedDrugs},
		{DiseaseDoEatQuery, &info.DoEat},
		{DiseaseNotEatQuery, &info.NotEat},
		{DiseaseRecommendedEatQuery, &info.RecommendedFoods},
		{DiseaseChecksQuery, &info.Checks},
		{DiseaseDepartmentsQuery, &info.Departments},
		{DiseaseCureWaysQuery, &info.CureWays},
		{DiseaseComplicationsQuery, &info.Complications},
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, rel := range relations {
		g.Go(func() error {
			*rel.dst = s.names(gctx, rel.query, params)
			return nil
		})
	}
	_ = g.Wait()

	return info
}

func normalizeKeyword(keyword string) string {
	norm := keyword
	for _, w := range keywordModifiers {
		norm = strings.ReplaceAll(norm, w, "")
	}
	return strings.TrimSpace(norm)
}

func (s *Service) fulltextNames(ctx context.Context, keyword, label string, limit int) []string {
	return s.names(ctx, FulltextQuery, map[string]interface{}{
		"index_name": fulltextIndex,
		"query":      keyword,
		"label":      label,
		"limit":      limit,
	})
}

// SearchDisease fuzzy-matches a disease name: exact match first, then the
// fulltext index, then a ranked CONTAINS scan. The normalized keyword is
// retried at each tier when the raw keyword misses.
func (s *Service) SearchDisease(ctx context.Context, keyword string, limit int) []string {
	if !s.connected {
		return nil
	}
	norm := normalizeKeyword(keyword)

	for _, kw := range candidateKeywords(keyword, norm) {
		if found := s.names(ctx, DiseaseExactQuery, map[string]interface{}{"kw": kw, "limit": limit}); len(found) > 0 {
			return found
		}
	}

	for _, kw := range candidateKeywords(keyword, norm) {
		if found := s.fulltextNames(ctx, kw, "Disease", limit); len(found) > 0 {
			return found
		}
	}

	for _, kw := range candidateKeywords(keyword, norm) {
		if found := s.names(ctx, DiseaseContainsQuery, map[string]interface{}{"keyword": kw, "limit": limit}); len(found) > 0 {
			return found
		}
	}
	return nil
}

func candidateKeywords(raw, norm string) []string {
	if norm != "" && norm != raw {
		return []string{raw, norm}
	}
	return []string{raw}
}

// SearchSymptom fuzzy-matches a symptom name: fulltext index first, then a
// CONTAINS scan.
func (s *Service) SearchSymptom(ctx context.Context, keyword string, limit int) []string {
	if !s.connected {
		return nil
	}
	if found := s.fulltextNames(ctx, keyword, "Symptom", limit); len(found) > 0 {
		return found
	}
	return s.names(ctx, SymptomContainsQuery, map[string]interface{}{"keyword": keyword, "limit": limit})
}

// DiseasesBySymptom lists diseases presenting a given symptom.
func (s *Service) DiseasesBySymptom(ctx context.Context, symptom string) []string {
	if !s.connected {
		return nil
	}
	return s.names(ctx, DiseasesBySymptomQuery, map[string]interface{}{"name": symptom})
}

// Stats counts nodes per label plus total relationships.
func (s *Service) Stats(ctx context.Context) map[string]int64 {
	if !s.connected {
		return map[string]int64{}
	}

	stats := map[string]int64{}
	labels := []string{"Disease", "Symptom", "Drug", "Food", "Check", "Department", "Cure", "Producer"}
	for _, label := range labels {
		result, err := s.driver.ExecuteQuery(ctx, fmt.Sprintf(CountByLabelQuery, label), nil)
		if err != nil || len(result.Records) == 0 {
			continue
		}
		stats[label] = recordInt(result.Records[0], "count")
	}

	if result, err := s.driver.ExecuteQuery(ctx, CountRelationshipsQuery, nil); err == nil && len(result.Records) > 0 {
		stats["total_relationships"] = recordInt(result.Records[0], "count")
	}
	return stats
}

// SearchNodes finds nodes by name substring, optionally restricted to types.
func (s *Service) SearchNodes(ctx context.Context, keyword string, nodeTypes []string, limit int) []model.KGNode {
	if !s.connected {
		return nil
	}

	var nodes []model.KGNode
	if len(nodeTypes) > 0 {
		for _, t := range nodeTypes {
			for _, name := range s.names(ctx, fmt.Sprintf(SearchNodesByTypeQuery, t), map[string]interface{}{"keyword": keyword, "limit": limit}) {
				nodes = append(nodes, model.KGNode{ID: name, Label: name, Type: t, Properties: map[string]string{}})
			}
		}
	} else {
		result, err := s.driver.ExecuteQuery(ctx, SearchNodesAnyTypeQuery, map[string]interface{}{"keyword": keyword, "limit": limit})
		if err != nil {
			s.log.Debug("node search failed", "error", err)
			return nil
		}
		for _, rec := range result.Records {
			name, ok := recordString(rec, "name")
			if !ok {
				continue
			}
			nodeType := "Unknown"
			if labels := recordStrings(rec, "labels"); len(labels) > 0 {
				nodeType = labels[0]
			}
			nodes = append(nodes, model.KGNode{ID: name, Label: name, Type: nodeType, Properties: map[string]string{}})
		}
	}
	if len(nodes) > limit {
		nodes = nodes[:limit]
	}
	return nodes
}

// NodeNeighbors returns a node and its immediate neighborhood, looked up by
// name.
func (s *Service) NodeNeighbors(ctx context.Context, name string) model.NodeNeighbors {
	notFound := model.NodeNeighbors{
		Node: model.KGNode{ID: name, Label: "Not Found", Type: "Unknown", Properties: map[string]string{}},
	}
	if !s.connected {
		return notFound
	}

	result, err := s.driver.ExecuteQuery(ctx, NodeNeighborsQuery, map[string]interface{}{"name": name})
	if err != nil || len(result.Records) == 0 {
		return notFound
	}

	rec := result.Records[0]
	label, ok := recordString(rec, "name")
	if !ok {
		return notFound
	}
	nodeType := "Unknown"
	if labels := recordStrings(rec, "labels"); len(labels) > 0 {
		nodeType = labels[0]
	}

	out := model.NodeNeighbors{
		Node: model.KGNode{ID: name, Label: label, Type: nodeType, Properties: map[string]string{}},
	}

	raw, found := rec.Get("neighbors")
	if !found {
		return out
	}
	items, _ := raw.([]interface{})
	for _, it := range items {
		entry, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		nName, _ := entry["name"].(string)
		if nName == "" {
			continue
		}
		nType := "Unknown"
		if labels, ok := entry["labels"].([]interface{}); ok && len(labels) > 0 {
			if first, ok := labels[0].(string); ok {
				nType = first
			}
		}
		rel, _ := entry["rel"].(string)
		direction := "incoming"
		if outgoing, ok := entry["out"].(bool); ok && outgoing {
			direction = "outgoing"
		}
		out.Neighbors = append(out.Neighbors, model.NeighborNode{
			ID:           nName,
			Label:        nName,
			Type:         nType,
			Relationship: rel,
			Direction:    direction,
		})
	}
	return out
}
