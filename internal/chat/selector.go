// Package chat maps free-text user queries onto canned analysis templates
// by keyword-group scoring and renders them against the filtered data. The
// scoring table is explicit so it can later be swapped for a real classifier
// behind the same Select contract.
package chat

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"floatchat/internal/config"
	"floatchat/internal/domain/entity"
	"floatchat/internal/query"
)

// Response is the rendered outcome of one chat turn.
type Response struct {
	Text       string                  `json:"text"`
	TemplateID string                  `json:"template_id"`
	Criteria   entity.Criteria         `json:"criteria"`
	Result     *entity.QueryResult     `json:"-"`
	Count      int                     `json:"count"`
	Stats      map[string]entity.Stats `json:"stats,omitempty"`
}

type compiledTemplate struct {
	id       string
	keywords [][]string
	body     *template.Template
	criteria entity.Criteria
}

// Selector is a stateless classify-then-render pipeline. Templates keep
// their registration order; the first registered wins score ties.
type Selector struct {
	templates []compiledTemplate
	welcome   string
	clarify   string
	noData    string
}

func NewSelector(cfg config.ChatConfig) (*Selector, error) {
	s := &Selector{
		welcome: cfg.Welcome,
		clarify: cfg.Clarify,
		noData:  cfg.NoData,
	}

	for _, tc := range cfg.Templates {
		groups := make([][]string, 0, len(tc.Keywords))
		for _, group := range tc.Keywords {
			normalized := make([]string, 0, len(group))
			for _, kw := range group {
				normalized = append(normalized, normalize(kw))
			}
			groups = append(groups, normalized)
		}

		body, err := template.New(tc.ID).Parse(tc.Body)
		if err != nil {
			return nil, fmt.Errorf("chat template %q: %w", tc.ID, err)
		}

		s.templates = append(s.templates, compiledTemplate{
			id:       tc.ID,
			keywords: groups,
			body:     body,
			criteria: tc.Criteria,
		})
	}
	return s, nil
}

func (s *Selector) Welcome() string { return s.welcome }

// Select scores every template against queryText, renders the winner
// against the filtered population, and falls back to the clarification
// response when nothing scores at least one keyword group.
func (s *Selector) Select(queryText string, population []entity.Float, criteriaContext entity.Criteria) (*Response, error) {
	normalized := normalize(queryText)
	if normalized == "" {
		return s.clarifyResponse(), nil
	}

	best := -1
	bestScore := 0
	for i, t := range s.templates {
		score := scoreTemplate(normalized, t.keywords)
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return s.clarifyResponse(), nil
	}

	winner := s.templates[best]
	criteria := criteriaContext.Merge(winner.criteria)

	result, err := query.Apply(population, criteria)
	if err != nil {
		return nil, err
	}

	text := s.noData
	if result.HasData() {
		var buf bytes.Buffer
		data := renderData{Count: result.Count, stats: result.Stats}
		if err := winner.body.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("chat template %q: %w", winner.id, err)
		}
		text = strings.TrimSpace(buf.String())
	}

	return &Response{
		Text:       text,
		TemplateID: winner.id,
		Criteria:   criteria,
		Result:     result,
		Count:      result.Count,
		Stats:      result.Stats,
	}, nil
}

func (s *Selector) clarifyResponse() *Response {
	return &Response{Text: s.clarify, TemplateID: "clarify"}
}

// scoreTemplate counts keyword groups with at least one match; a group
// matching twice still counts once.
func scoreTemplate(normalized string, groups [][]string) int {
	score := 0
	padded := " " + normalized + " "
	for _, group := range groups {
		for _, kw := range group {
			if kw != "" && strings.Contains(padded, " "+kw+" ") {
				score++
				break
			}
		}
	}
	return score
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// normalize lowercases and collapses everything that is not a letter or
// digit so keyword matching stays word-boundary aware.
func normalize(text string) string {
	return strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]`)

// Sanitize strips control characters from user input before it is matched
// or persisted.
func Sanitize(text string) string {
	return strings.TrimSpace(controlChars.ReplaceAllString(text, " "))
}

// renderData is what template bodies execute against. Stat returns nil for
// a missing parameter so {{with .Stat "x"}} blocks drop out cleanly.
type renderData struct {
	Count int
	stats map[string]entity.Stats
}

func (d renderData) Stat(name string) *entity.Stats {
	if st, ok := d.stats[name]; ok {
		return &st
	}
	return nil
}
