package qa

import (
	"context"
	"regexp"
	"strings"

	"github.com/vitalgraph/mediq/internal/model"
)

// lexicon is the static table of medical surface forms scanned against the
// question before any graph lookup.
var lexicon = []string{
	"头痛", "偏头痛", "紧张性头痛", "发热", "发烧", "感冒", "流感",
	"咳嗽", "恶心", "呕吐", "腹痛", "腹泻", "便秘", "胸痛", "心悸",
	"高血压", "糖尿病", "哮喘", "过敏", "皮疹", "失眠", "焦虑", "抑郁",
	"布洛芬", "对乙酰氨基酚", "阿司匹林", "抗生素", "维生素",
	"脑膜炎", "脑卒中", "中风", "癫痫", "帕金森",
	"畏光", "颈部僵硬", "意识", "视力", "乏力", "疲劳",
	"肺炎", "支气管炎", "胃炎", "肠炎", "肝炎", "肾炎",
	"冠心病", "心肌梗死", "心绞痛", "心律失常",
	"骨折", "关节炎", "腰痛", "颈椎病", "肩周炎",
	"湿疹", "荨麻疹", "痤疮", "银屑病",
	"贫血", "白血病", "淋巴瘤",
}

// synonyms maps colloquial names to the canonical graph names. Entries are
// ordered so more specific surface forms are checked first.
var synonyms = []struct {
	Colloquial string
	Canonical  string
}{
	{"小儿麻痹症", "脊髓灰质炎"},
	{"小儿麻痹", "脊髓灰质炎"},
	{"儿麻痹", "脊髓灰质炎"},
	{"普通流感", "流感"},
	{"流感", "流行性感冒"},
	{"感冒", "上呼吸道感染"},
}

var (
	hanWindowRe  = regexp.MustCompile(`[\p{Han}]{2,6}`)
	hanHistoryRe = regexp.MustCompile(`[\p{Han}]{2,12}`)
	hanRunsRe    = regexp.MustCompile(`[\p{Han}]+`)
	suffixRe     = regexp.MustCompile(`(是什么|是啥|啥是|是啥意思|是什么意思|是什么病|怎么回事|有哪些症状|症状|怎么办)$`)
)

// GraphSearcher is the slice of the graph service the resolver needs.
type GraphSearcher interface {
	Connected() bool
	SearchDisease(ctx context.Context, keyword string, limit int) []string
	SearchSymptom(ctx context.Context, keyword string, limit int) []string
}

// Resolver turns a question plus conversation history into an ordered,
// deduplicated list of canonical graph entity names.
type Resolver struct {
	graph GraphSearcher
}

func NewResolver(graph GraphSearcher) *Resolver {
	return &Resolver{graph: graph}
}

// entitySet collects entities preserving first-seen order.
type entitySet struct {
	seen  map[string]struct{}
	order []string
}

func newEntitySet() *entitySet {
	return &entitySet{seen: make(map[string]struct{})}
}

func (s *entitySet) add(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := s.seen[name]; ok {
		return false
	}
	s.seen[name] = struct{}{}
	s.order = append(s.order, name)
	return true
}

func (s *entitySet) has(name string) bool {
	_, ok := s.seen[name]
	return ok
}

func (s *entitySet) empty() bool {
	return len(s.order) == 0
}

// Resolve extracts entities from the question, falling back to the
// conversation history and then to aggressive whole-question matching when
// the question alone yields nothing.
func (r *Resolver) Resolve(ctx context.Context, query string, history []model.ChatMessage) []string {
	set := newEntitySet()

	r.scanLexicon(query, set)
	r.scanSynonyms(query, set)
	r.fuzzyScan(ctx, query, hanWindowRe, set)

	if set.empty() && len(history) > 0 {
		r.historyBackoff(ctx, history, set)
	}
	if set.empty() {
		r.aggressiveBackoff(ctx, query, set)
	}

	// Compensating pass: rescan history plus the question together so
	// follow-up turns keep earlier entities in scope.
	if len(history) > 0 && r.graph.Connected() {
		combined := joinHistory(history) + " " + query
		r.fuzzyScan(ctx, combined, hanWindowRe, set)
		r.scanLexicon(combined, set)
	}

	return set.order
}

// ResolveCurrentTurn extracts entities from the question alone. Evidence
// retrieval uses this narrower view so documents relevant only to earlier
// turns stay out of the current answer.
func (r *Resolver) ResolveCurrentTurn(ctx context.Context, query string) []string {
	set := newEntitySet()
	r.scanLexicon(query, set)
	r.fuzzyScan(ctx, query, hanWindowRe, set)
	return set.order
}

func (r *Resolver) scanLexicon(text string, set *entitySet) {
	for _, term := range lexicon {
		if strings.Contains(text, term) {
			set.add(term)
		}
	}
}

func (r *Resolver) scanSynonyms(text string, set *entitySet) {
	for _, syn := range synonyms {
		if strings.Contains(text, syn.Colloquial) {
			set.add(syn.Canonical)
		}
	}
}

// fuzzyScan chunks the Han runs of text into candidate terms and resolves
// each against the graph, diseases before symptoms.
func (r *Resolver) fuzzyScan(ctx context.Context, text string, re *regexp.Regexp, set *entitySet) {
	if !r.graph.Connected() {
		return
	}
	for _, term := range re.FindAllString(text, -1) {
		if set.has(term) {
			continue
		}
		if diseases := r.graph.SearchDisease(ctx, term, 1); len(diseases) > 0 {
			set.add(diseases[0])
			continue
		}
		if symptoms := r.graph.SearchSymptom(ctx, term, 1); len(symptoms) > 0 {
			set.add(symptoms[0])
		}
	}
}

// historyBackoff walks the most recent user turns newest first and stops at
// the first turn that yields a graph entity. This resolves pronouns and
// elided subjects in follow-up questions.
func (r *Resolver) historyBackoff(ctx context.Context, history []model.ChatMessage, set *entitySet) {
	recent := lastTurns(history, 6)
	for i := len(recent) - 1; i >= 0; i-- {
		msg := recent[i]
		if msg.Role != "user" {
			continue
		}
		for _, term := range hanHistoryRe.FindAllString(msg.Content, -1) {
			if set.has(term) {
				continue
			}
			if diseases := r.graph.SearchDisease(ctx, term, 1); len(diseases) > 0 {
				set.add(diseases[0])
				break
			}
			if symptoms := r.graph.SearchSymptom(ctx, term, 1); len(symptoms) > 0 {
				set.add(symptoms[0])
				break
			}
		}
		if !set.empty() {
			return
		}
	}
}

// aggressiveBackoff strips interrogative suffixes and searches the whole
// remaining question as a disease name, then falls back to an n-gram scan
// from longest to shortest.
func (r *Resolver) aggressiveBackoff(ctx context.Context, query string, set *entitySet) {
	cleaned := strings.TrimSpace(suffixRe.ReplaceAllString(strings.TrimSpace(query), ""))
	if cleaned != "" {
		for _, d := range r.graph.SearchDisease(ctx, cleaned, 3) {
			set.add(d)
		}
	}
	if !set.empty() {
		return
	}

	text := []rune(strings.Join(hanRunsRe.FindAllString(query, -1), ""))
	for length := 6; length >= 2; length-- {
		for i := 0; i+length <= len(text); i++ {
			sub := string(text[i : i+length])
			if set.has(sub) {
				continue
			}
			if diseases := r.graph.SearchDisease(ctx, sub, 1); len(diseases) > 0 {
				set.add(diseases[0])
				break
			}
		}
		if !set.empty() {
			return
		}
	}
}

func lastTurns(history []model.ChatMessage, n int) []model.ChatMessage {
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}

func joinHistory(history []model.ChatMessage) string {
	recent := lastTurns(history, 6)
	parts := make([]string, 0, len(recent))
	for _, m := range recent {
		parts = append(parts, m.Content)
	}
	return strings.Join(parts, " ")
}
