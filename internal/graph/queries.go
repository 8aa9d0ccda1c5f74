package graph

const (
	DiseaseInfoQuery = `
		MATCH (d:Disease {name: $name})
		RETURN d.name AS name, d.desc AS description, d.cause AS cause,
		       d.prevent AS prevent, d.cure_lasttime AS cure_time,
		       d.cured_prob AS cure_prob, d.easy_get AS easy_get
	`

	DiseaseSymptomsQuery = `
		MATCH (d:Disease {name: $name})-[:has_symptom]->(s:Symptom)
		RETURN s.name AS name
	`

	DiseaseCommonDrugsQuery = `
		MATCH (d:Disease {name: $name})-[:common_drug]->(dr:Drug)
		RETURN dr.name AS name
	`

	DiseaseRecommendedDrugsQuery = `
		MATCH (d:Disease {name: $name})-[:recommand_drug]->(dr:Drug)
		RETURN dr.name AS name
	`

	DiseaseDoEatQuery = `
		MATCH (d:Disease {name: $name})-[:do_eat]->(f:Food)
		RETURN f.name AS name
	`

	DiseaseNotEatQuery = `
		MATCH (d:Disease {name: $name})-[:no_eat]->(f:Food)
		RETURN f.name AS name
	`

	DiseaseRecommendedEatQuery = `
		MATCH (d:Disease {name: $name})-[:recommand_eat]->(f:Food)
		RETURN f.name AS name
	`

	DiseaseChecksQuery = `
		MATCH (d:Disease {name: $name})-[:need_check]->(c:Check)
		RETURN c.name AS name
	`

	DiseaseDepartmentsQuery = `
		MATCH (d:Disease {name: $name})-[:belongs_to]->(dep:Department)
		RETURN dep.name AS name
	`

	DiseaseCureWaysQuery = `
		MATCH (d:Disease {name: $name})-[:cure_way]->(c:Cure)
		RETURN c.name AS name
	`

	DiseaseComplicationsQuery = `
		MATCH (d:Disease {name: $name})-[:acompany_with]->(d2:Disease)
		RETURN d2.name AS name
	`

	DiseasesBySymptomQuery = `
		MATCH (d:Disease)-[:has_symptom]->(s:Symptom {name: $name})
		RETURN d.name AS name
		LIMIT 20
	`

	DiseaseExactQuery = `
		MATCH (d:Disease)
		WHERE d.name = $kw OR (d.alias IS NOT NULL AND any(a IN d.alias WHERE a = $kw))
		RETURN d.name AS name
		LIMIT $limit
	`

	// FulltextQuery requires a fulltext index named kg_fulltext covering the
	// name property of all node labels.
	FulltextQuery = `
		CALL db.index.fulltext.queryNodes($index_name, $query) YIELD node, score
		WHERE $label IN labels(node)
		RETURN node.name AS name, score
		ORDER BY score DESC
		LIMIT $limit
	`

	// DiseaseContainsQuery ranks CONTAINS hits: exact = 0, prefix = 1, substring = 2.
	DiseaseContainsQuery = `
		MATCH (d:Disease)
		WHERE d.name CONTAINS $keyword OR (d.alias IS NOT NULL AND any(a IN d.alias WHERE a CONTAINS $keyword))
		RETURN d.name AS name,
		       CASE
		         WHEN d.name = $keyword THEN 0
		         WHEN d.name STARTS WITH $keyword THEN 1
		         WHEN d.name CONTAINS $keyword THEN 2
		         ELSE 3
		       END AS rank
		ORDER BY rank, d.name
		LIMIT $limit
	`

	SymptomContainsQuery = `
		MATCH (s:Symptom)
		WHERE s.name CONTAINS $keyword OR (s.alias IS NOT NULL AND any(a IN s.alias WHERE a CONTAINS $keyword))
		RETURN s.name AS name
		LIMIT $limit
	`

	CountByLabelQuery = `MATCH (n:%s) RETURN count(n) AS count`

	CountRelationshipsQuery = `MATCH ()-[r]->() RETURN count(r) AS count`

	GraphDiseaseNamesQuery = `
		MATCH (d:Disease)
		RETURN d.name AS name
		LIMIT $limit
	`

	GraphDiseaseRelationsQuery = `
		MATCH (d:Disease)-[r]->(n)
		WHERE d.name IN $disease_names
		RETURN d.name AS d_name, labels(d) AS d_labels,
		       n.name AS n_name, labels(n) AS n_labels,
		       type(r) AS rel_type
	`

	NodeNeighborsQuery = `
		MATCH (n {name: $name})
		OPTIONAL MATCH (n)-[r]-(m)
		RETURN n.name AS name, labels(n) AS labels,
		       collect({name: m.name, labels: labels(m), rel: type(r),
		                out: startNode(r) = n}) AS neighbors
		LIMIT 1
	`

	SearchNodesByTypeQuery = `
		MATCH (n:%s)
		WHERE n.name CONTAINS $keyword
		RETURN n.name AS name
		LIMIT $limit
	`

	SearchNodesAnyTypeQuery = `
		MATCH (n)
		WHERE n.name CONTAINS $keyword
		RETURN n.name AS name, labels(n) AS labels
		LIMIT $limit
	`
)
