package vocabulary

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/Alishbarana/InnoLearn/internal/debug"
	ierrors "github.com/Alishbarana/InnoLearn/internal/errors"
)

// Load reads a KDL vocabulary file:
//
//	stop-words "the" "a" "an"
//	synonym "insertion" "insert" "add"
//	category "stack" {
//	    display "Stack"
//	    topic "Data Structures"
//	    forms "stack" "stacks" "push operation"
//	}
//
// Categories keep file order. A file without stop-words gets the built-in list.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ierrors.NewVocabularyError(path, "", err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		var verr *ierrors.VocabularyError
		if errors.As(err, &verr) && verr.Path == "" {
			verr.Path = path
			return nil, verr
		}
		return nil, ierrors.NewVocabularyError(path, "", err)
	}
	debug.LogVocabulary("loaded %s from %s\n", t, path)
	return t, nil
}

// Parse reads a KDL vocabulary document from r
func Parse(r io.Reader) (*Table, error) {
	doc, err := kdl.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL vocabulary: %w", err)
	}

	var (
		categories []Category
		stopWords  []string
		synonyms   = make(map[string][]string)
		sawStop    bool
	)

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "category":
			c, err := parseCategory(n)
			if err != nil {
				return nil, err
			}
			categories = append(categories, c)
		case "stop-words", "stop_words":
			sawStop = true
			stopWords = append(stopWords, collectStringArgs(n)...)
		case "synonym":
			args := collectStringArgs(n)
			if len(args) < 2 {
				log.Printf("WARNING: synonym node needs a key and at least one alternative, skipping")
				continue
			}
			synonyms[args[0]] = append(synonyms[args[0]], args[1:]...)
		default:
			log.Printf("WARNING: unknown vocabulary node '%s' ignored", nodeName(n))
		}
	}

	if !sawStop {
		stopWords = defaultStopWords
	}
	return New(categories, stopWords, synonyms)
}

func parseCategory(n *document.Node) (Category, error) {
	id, ok := firstStringArg(n)
	if !ok {
		return Category{}, ierrors.NewVocabularyError("", "", errors.New("category node needs an id argument"))
	}
	c := Category{ID: id}
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "display", "display_name":
			if s, ok := firstStringArg(cn); ok {
				c.DisplayName = s
			}
		case "topic":
			if s, ok := firstStringArg(cn); ok {
				c.Topic = s
			}
		case "forms", "surface_forms":
			c.SurfaceForms = append(c.SurfaceForms, collectStringArgs(cn)...)
		default:
			log.Printf("WARNING: unknown field '%s' in category %q ignored", nodeName(cn), id)
		}
	}
	return c, nil
}

// Format renders t in the format Load reads
func Format(t *Table) string {
	var b strings.Builder
	b.WriteString("stop-words")
	for _, w := range t.stopList {
		b.WriteString(" " + strconv.Quote(w))
	}
	b.WriteString("\n")
	for _, key := range t.synonymKeys {
		b.WriteString("synonym " + strconv.Quote(key))
		for _, alt := range t.synonyms[key] {
			b.WriteString(" " + strconv.Quote(alt))
		}
		b.WriteString("\n")
	}
	for _, c := range t.categories {
		fmt.Fprintf(&b, "category %s {\n", strconv.Quote(c.ID))
		fmt.Fprintf(&b, "    display %s\n", strconv.Quote(c.DisplayName))
		if c.Topic != "" {
			fmt.Fprintf(&b, "    topic %s\n", strconv.Quote(c.Topic))
		}
		b.WriteString("    forms")
		for _, f := range c.SurfaceForms {
			b.WriteString(" " + strconv.Quote(f))
		}
		b.WriteString("\n}\n")
	}
	return b.String()
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
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

// collectStringArgs accepts both inline arguments and block children
// (forms { "stack"; "stacks" }).
func collectStringArgs(n *document.Node) []string {
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
