// Package extractor turns the loosely shaped JSON returned by a fact-check
// service into text a user can read.
//
// The only shape it understands is the generative-AI candidate layout, an
// array whose first element carries content.parts[0].text. That text is
// either a JSON verdict or free text. Anything else degrades to Fallback.
package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/jrsteele09/go-factcheck-chat/internal/utils"
)

// MaxDepth bounds the search so hostile payloads cannot exhaust the stack.
const MaxDepth = 64

const (
	// Fallback is returned whenever no readable text can be found.
	Fallback = "I received a response from the fact-checking service, but couldn't parse it properly. Please try rephrasing your question."

	// NoExplanation fills a verdict that arrived without one.
	NoExplanation = "No explanation provided"
)

// Verdict is the structured part of a reply whose text was a JSON object.
type Verdict struct {
	Accurate    bool
	Explanation string
	Sources     []string
}

// Result is what the caller stores and shows. Verdict is nil unless the
// located text was a JSON object.
type Result struct {
	Text    string
	Verdict *Verdict
}

// Matched reports whether a text payload was located at all.
func (r Result) Matched() bool {
	return r.Text != Fallback
}

// ExtractJSON decodes raw and extracts from it. Invalid JSON yields Fallback.
func ExtractJSON(raw []byte) Result {
	payload, err := decode(raw)
	if err != nil {
		return Result{Text: Fallback}
	}
	return Extract(payload)
}

// Extract searches a decoded JSON value. It never panics.
func Extract(payload any) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{Text: Fallback}
		}
	}()

	parts, ok := findContentParts(payload, 0)
	if !ok {
		return Result{Text: Fallback}
	}
	first, _ := parts[0].(map[string]any)
	text, ok := first["text"].(string)
	if !ok {
		return Result{Text: Fallback}
	}
	return interpret(text)
}

// findContentParts walks the value depth first and stops at the first array
// whose leading element has content.parts. Object keys are visited in sorted
// order so the same payload always yields the same answer.
func findContentParts(v any, depth int) ([]any, bool) {
	if depth > MaxDepth {
		return nil, false
	}

	switch node := v.(type) {
	case []any:
		if len(node) > 0 {
			if parts, ok := contentParts(node[0]); ok {
				return parts, true
			}
		}
		for _, item := range node {
			if parts, ok := findContentParts(item, depth+1); ok {
				return parts, true
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if parts, ok := findContentParts(node[k], depth+1); ok {
				return parts, true
			}
		}
	}
	return nil, false
}

// contentParts returns item.content.parts when it is a non-empty array.
func contentParts(item any) ([]any, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return nil, false
	}
	content, ok := obj["content"].(map[string]any)
	if !ok {
		return nil, false
	}
	parts, ok := content["parts"].([]any)
	if !ok || len(parts) == 0 {
		return nil, false
	}
	return parts, true
}

func interpret(text string) Result {
	parsed, err := decode([]byte(text))
	if err != nil {
		return Result{Text: strings.ReplaceAll(text, `"`, "")}
	}
	if parsed == nil {
		return Result{Text: Fallback}
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return Result{Text: text}
	}

	verdict := &Verdict{
		Accurate:    obj["fact_check_result"] == "true",
		Explanation: NoExplanation,
		Sources:     utils.ToStringSlice(obj["sources"]),
	}
	if !truthy(obj["explanation"]) {
		return Result{Text: text, Verdict: verdict}
	}
	verdict.Explanation = fmt.Sprint(obj["explanation"])

	if !truthy(obj["fact_check_result"]) {
		return Result{Text: text, Verdict: verdict}
	}
	return Result{Text: format(verdict.Accurate, verdict.Explanation), Verdict: verdict}
}

func format(accurate bool, explanation string) string {
	label := "❌ INACCURATE"
	if accurate {
		label = "✅ ACCURATE"
	}
	var b strings.Builder
	b.WriteString("🔍 Fact-Check Result:\n\n")
	b.WriteString(label)
	b.WriteString("\n\n📝 Explanation: ")
	b.WriteString(explanation)
	return b.String()
}

// truthy mirrors the loose notion of "present" the services' payloads rely on.
func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case json.Number:
		f, err := x.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// decode parses exactly one JSON value, keeping numbers as json.Number.
func decode(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}
