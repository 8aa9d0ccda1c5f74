package model

import "fmt"

// SourceType tags where a piece of evidence came from.
type SourceType string

const (
	SourcePubMed         SourceType = "pubmed"
	SourceGuideline      SourceType = "guideline"
	SourceDrugBank       SourceType = "drugbank"
	SourceKnowledgeGraph SourceType = "knowledge_graph"
	SourceClinicalTrial  SourceType = "clinical_trial"
	SourceWHO            SourceType = "who"
	SourceOther          SourceType = "other"
)

// Evidence is a retrieved passage with provenance metadata.
type Evidence struct {
	Source          string     `json:"source"`
	SourceType      SourceType `json:"source_type"`
	Snippet         string     `json:"snippet"`
	PMID            string     `json:"pmid,omitempty"`
	DOI             string     `json:"doi,omitempty"`
	URL             string     `json:"url,omitempty"`
	Confidence      float64    `json:"confidence"`
	PublicationDate string     `json:"publication_date,omitempty"`
	Section         string     `json:"section,omitempty"`
}

// ChatMessage is one turn of conversation history, most-recent-last.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// MemoryHit is a remembered user fact returned by similarity search.
type MemoryHit struct {
	ID       int64             `json:"id"`
	UserID   string            `json:"user_id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
	Score    float64           `json:"score"`
}

// QueryRequest is the inbound question. Immutable once accepted.
type QueryRequest struct {
	Query           string        `json:"query"`
	History         []ChatMessage `json:"history,omitempty"`
	UserID          string        `json:"user_id,omitempty"`
	MaxAnswers      int           `json:"max_answers,omitempty"`
	IncludeKGPaths  *bool         `json:"include_kg_paths,omitempty"`
	IncludeEvidence *bool         `json:"include_evidence,omitempty"`
	Language        string        `json:"language,omitempty"`
}

// Validate checks required fields and normalizes bounded ones.
func (r *QueryRequest) Validate() error {
	if r.Query == "" {
		return fmt.Errorf("query must not be empty")
	}
	if len(r.Query) > 2000 {
		return fmt.Errorf("query exceeds 2000 characters")
	}
	if r.MaxAnswers <= 0 {
		r.MaxAnswers = 3
	}
	if r.MaxAnswers > 10 {
		r.MaxAnswers = 10
	}
	if r.Language == "" {
		r.Language = "zh"
	}
	return nil
}

// WantKGPaths reports whether graph paths were requested (default true).
func (r *QueryRequest) WantKGPaths() bool {
	return r.IncludeKGPaths == nil || *r.IncludeKGPaths
}

// WantEvidence reports whether evidence passages were requested (default true).
func (r *QueryRequest) WantEvidence() bool {
	return r.IncludeEvidence == nil || *r.IncludeEvidence
}

// AnswerSource classifies how an answer was produced. It is derived from the
// generation method actually used and whether any graph context was found,
// never chosen directly.
type AnswerSource string

const (
	AnswerKnowledgeGraph AnswerSource = "knowledge_graph"
	AnswerLLMOnly        AnswerSource = "llm_only"
	AnswerMixed          AnswerSource = "mixed"
	AnswerTemplate       AnswerSource = "template"
)

// Disclaimer is appended to every response verbatim.
const Disclaimer = "⚠️ 重要提示：本系统仅供医疗信息参考，不能替代专业医生的诊断和治疗建议。如有身体不适，请及时就医。紧急情况请拨打急救电话。"

// QueryResponse is the single structured answer. One is always produced for
// a well-formed request; degraded backends lower AnswerSource and append
// warnings instead of failing.
type QueryResponse struct {
	QueryID          string       `json:"query_id"`
	Answer           string       `json:"answer"`
	AnswerSource     AnswerSource `json:"answer_source"`
	Evidence         []Evidence   `json:"evidence"`
	KGPaths          []KGPath     `json:"kg_paths"`
	ConfidenceScore  float64      `json:"confidence_score"`
	Warnings         []string     `json:"warnings"`
	Disclaimer       string       `json:"disclaimer"`
	ProcessingTimeMS int64        `json:"processing_time_ms"`
	ModelUsed        string       `json:"model_used"`
}
