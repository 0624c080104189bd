// Package mock provides a gazetteer and pattern based entity extractor for
// running without a hosted model.
package mock

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"speech-analyzer-service/internal/models"
)

var gazetteer = map[string]string{
	"apple":   "ORG",
	"samsung": "ORG",
	"google":  "ORG",
	"xiaomi":  "ORG",
	"oneplus": "ORG",
	"iphone":  "PRODUCT",
	"galaxy":  "PRODUCT",
	"pixel":   "PRODUCT",
}

var patterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"MONEY", regexp.MustCompile(`(?i)(?:\$|€|£|₹)\s?\d+(?:[.,]\d+)*|\b\d+(?:[.,]\d+)*\s?(?:dollars|euros|rupees|bucks)\b`)},
	{"DATE", regexp.MustCompile(`(?i)\b(?:today|tomorrow|yesterday|this weekend|next week|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)},
}

var wordRe = regexp.MustCompile(`[A-Za-z][A-Za-z0-9]*`)

type match struct {
	start  int
	entity models.Entity
}

// Extractor implements ner.Extractor.
type Extractor struct{}

// New creates a mock extractor.
func New() *Extractor {
	return &Extractor{}
}

// Name returns the provider identifier.
func (e *Extractor) Name() string {
	return "mock"
}

// Extract returns known brand/product names and money/date phrases in order
// of their first appearance.
func (e *Extractor) Extract(ctx context.Context, text string) ([]models.Entity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found []match
	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		word := text[loc[0]:loc[1]]
		if label, ok := gazetteer[strings.ToLower(word)]; ok {
			found = append(found, match{loc[0], models.Entity{Text: word, Label: label}})
		}
	}
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			found = append(found, match{loc[0], models.Entity{Text: text[loc[0]:loc[1]], Label: p.label}})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].start < found[j].start })

	entities := make([]models.Entity, 0, len(found))
	for _, m := range found {
		entities = append(entities, m.entity)
	}
	return entities, nil
}
