package config

import (
	"fmt"
	"log"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// parseKDL reads a .innolearn.kdl document on top of the defaults:
//
//	version 1
//	vocabulary { path "terms.kdl"; watch true; watch_debounce_ms 300 }
//	matching { fuzzy_threshold 0.6; stemming false; fold_accents true }
//	classifier { stable_softmax true; labels "array" "binary_tree" }
//	cache { size 512 }
//	batch { workers 4 }
//	server { name "innolearn" }
func parseKDL(content string) (*Config, error) {
	cfg := Default()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "version":
			if v, ok := firstIntArg(n); ok {
				cfg.Version = v
			}
		case "vocabulary":
			parseVocabularySection(cfg, n)
		case "matching":
			parseMatchingSection(cfg, n)
		case "classifier":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "stable_softmax":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Classifier.StableSoftmax = b
					}
				case "labels":
					cfg.Classifier.Labels = collectStringArgs(cn)
				default:
					warnUnknown("classifier", cn)
				}
			}
		case "cache":
			for _, cn := range n.Children {
				assignInt(cn, "size", func(v int) { cfg.Cache.Size = v })
			}
		case "batch":
			for _, cn := range n.Children {
				assignInt(cn, "workers", func(v int) { cfg.Batch.Workers = v })
			}
		case "server":
			for _, cn := range n.Children {
				assignSimpleString(cn, "name", func(v string) { cfg.Server.Name = v })
			}
		default:
			warnUnknown("", n)
		}
	}

	return cfg, nil
}

func parseVocabularySection(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "path":
			if s, ok := firstStringArg(cn); ok {
				cfg.Vocabulary.Path = s
			}
		case "watch":
			if b, ok := firstBoolArg(cn); ok {
				cfg.Vocabulary.Watch = b
			}
		case "watch_debounce_ms":
			if v, ok := firstIntArg(cn); ok {
				cfg.Vocabulary.WatchDebounceMs = v
			}
		default:
			warnUnknown("vocabulary", cn)
		}
	}
}

func parseMatchingSection(cfg *Config, n *document.Node) {
	m := &cfg.Matching
	floats := map[string]*float64{
		"exact_confidence":       &m.ExactConfidence,
		"keyword_weight":         &m.KeywordWeight,
		"keyword_min_confidence": &m.KeywordMinConfidence,
		"fuzzy_threshold":        &m.FuzzyThreshold,
		"fuzzy_weight":           &m.FuzzyWeight,
		"partial_confidence":     &m.PartialConfidence,
	}
	ints := map[string]*int{
		"keyword_top_n":           &m.KeywordTopN,
		"max_suggestions":         &m.MaxSuggestions,
		"suggestions_per_keyword": &m.SuggestionsPerKeyword,
	}
	bools := map[string]*bool{
		"stemming":     &m.Stemming,
		"normalize":    &m.Normalize,
		"fold_accents": &m.FoldAccents,
	}

	for _, cn := range n.Children {
		name := nodeName(cn)
		if p, ok := floats[name]; ok {
			if v, ok := firstFloatArg(cn); ok {
				*p = v
			}
			continue
		}
		if p, ok := ints[name]; ok {
			if v, ok := firstIntArg(cn); ok {
				*p = v
			}
			continue
		}
		if p, ok := bools[name]; ok {
			if b, ok := firstBoolArg(cn); ok {
				*p = b
			}
			continue
		}
		if name == "fuzzy_algorithm" {
			if s, ok := firstStringArg(cn); ok {
				m.FuzzyAlgorithm = s
			}
			continue
		}
		warnUnknown("matching", cn)
	}
}

func warnUnknown(section string, n *document.Node) {
	if section == "" {
		log.Printf("WARNING: unknown node '%s' in KDL config", nodeName(n))
		return
	}
	log.Printf("WARNING: unknown node '%s' in %s section of KDL config", nodeName(n), section)
}

// Helper functions leveraging kdl-go document model
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for '%s' in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

// collectStringArgs accepts both `labels "a" "b"` and the block form
// `labels { "a"; "b" }`
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

func assignInt(n *document.Node, target string, set func(int)) {
	if nodeName(n) == target {
		if v, ok := firstIntArg(n); ok {
			set(v)
		}
	}
}
