package vector

import (
	"context"
	"sort"
	"strings"

	"github.com/vitalgraph/mediq/internal/model"
)

const snippetTruncateRunes = 300

// Store retrieves evidence passages by shallow keyword overlap against a
// fixed in-memory corpus. Retrieval quality research is out of scope; the
// scoring rewards keyword-list hits over body hits.
type Store struct {
	documents []Document
}

func NewStore() *Store {
	return &Store{documents: seedDocuments()}
}

// NewStoreWithDocuments builds a store over a custom corpus; used by tests.
func NewStoreWithDocuments(docs []Document) *Store {
	return &Store{documents: docs}
}

type scoredDoc struct {
	doc   Document
	score int
}

// Search ranks documents by overlap between (query + keywords) and each
// document's text and keyword list.
func (s *Store) Search(ctx context.Context, query string, keywords []string, limit int) []model.Evidence {
	terms := []string{strings.ToLower(query)}
	for _, k := range keywords {
		terms = append(terms, strings.ToLower(k))
	}

	var scored []scoredDoc
	for _, doc := range s.documents {
		docText := strings.ToLower(doc.Title + " " + doc.Content)
		docKeywords := make([]string, len(doc.Keywords))
		for i, k := range doc.Keywords {
			docKeywords[i] = strings.ToLower(k)
		}

		score := 0
		for _, term := range terms {
			if term == "" {
				continue
			}
			if strings.Contains(docText, term) {
				score += 2
			}
			for _, dk := range docKeywords {
				if dk == term {
					score += 3
				}
			}
		}
		if score > 0 {
			scored = append(scored, scoredDoc{doc: doc, score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	var results []model.Evidence
	for _, sd := range scored {
		if len(results) >= limit {
			break
		}
		results = append(results, toEvidence(sd.doc))
	}
	return results
}

// Document returns a corpus entry by id.
func (s *Store) Document(id string) (Document, bool) {
	for _, doc := range s.documents {
		if doc.ID == id {
			return doc, true
		}
	}
	return Document{}, false
}

func toEvidence(doc Document) model.Evidence {
	snippet := doc.Content
	if runes := []rune(snippet); len(runes) > snippetTruncateRunes {
		snippet = string(runes[:snippetTruncateRunes]) + "..."
	}

	sourceType := model.SourceOther
	switch doc.SourceType {
	case "pubmed":
		sourceType = model.SourcePubMed
	case "guideline":
		sourceType = model.SourceGuideline
	case "drugbank":
		sourceType = model.SourceDrugBank
	}

	return model.Evidence{
		Source:          doc.Source,
		SourceType:      sourceType,
		Snippet:         snippet,
		PMID:            doc.PMID,
		DOI:             doc.DOI,
		URL:             doc.URL,
		Confidence:      doc.Confidence,
		PublicationDate: doc.Year,
		Section:         doc.Title,
	}
}
