package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Alishbarana/InnoLearn/internal/classifier"
	"github.com/Alishbarana/InnoLearn/internal/types"
)

func recognizeCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	rec, _, err := newRecognizer(cfg)
	if err != nil {
		return err
	}

	text := strings.Join(c.Args().Slice(), " ")
	if c.NArg() == 0 {
		data, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(data)
	}

	result := rec.RecognizeFromText(c.Context, text)
	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	printResult(c.App.Writer, result)
	return nil
}

func classifyCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	scores, err := parseScores(c.String("scores"))
	if err != nil {
		return err
	}
	labels := cfg.Classifier.Labels
	if c.IsSet("labels") {
		labels = splitList(c.String("labels"))
	}

	result, err := classifier.Adapt(classifier.Output{Labels: labels, RawScores: scores},
		classifier.Options{StableSoftmax: cfg.Classifier.StableSoftmax})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		return writeJSON(c.App.Writer, result)
	}
	printResult(c.App.Writer, result)
	return nil
}

func termsCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	table, err := cfg.LoadVocabulary()
	if err != nil {
		return err
	}
	w := c.App.Writer

	if term := c.String("lookup"); term != "" {
		id, ok := table.CategoryForSurfaceForm(term)
		if !ok {
			return fmt.Errorf("no category has a surface form containing %q", term)
		}
		fmt.Fprintf(w, "%s (%s)\n", id, table.DisplayName(id))
		return nil
	}

	if c.NArg() > 0 {
		id := c.Args().First()
		if _, ok := table.Category(id); !ok {
			return fmt.Errorf("unknown category %q (known: %s)", id, strings.Join(table.Categories(), ", "))
		}
		for _, form := range table.TermsForCategory(id) {
			fmt.Fprintln(w, form)
		}
		return nil
	}

	for _, id := range table.Categories() {
		fmt.Fprintf(w, "%-14s %-16s %-20s %d forms\n", id, table.DisplayName(id), table.Topic(id), len(table.TermsForCategory(id)))
	}
	return nil
}

// parseScores parses "1.5, -0.2, 3" into floats
func parseScores(s string) ([]float64, error) {
	parts := splitList(s)
	if len(parts) == 0 {
		return nil, fmt.Errorf("--scores needs at least one value")
	}
	scores := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid score %q at position %d: %w", p, i, err)
		}
		scores[i] = v
	}
	return scores, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printResult renders a result for terminals
func printResult(w io.Writer, r *types.RecognitionResult) {
	switch r.MatchType {
	case types.MatchNoText, types.MatchError:
		fmt.Fprintf(w, "%s: %s\n", r.MatchType, r.Error)
		return
	case types.MatchNone:
		fmt.Fprintln(w, "no match")
	default:
		fmt.Fprintf(w, "%s (%s, %.1f%%)", r.RecognizedTerm, r.MatchType, r.Confidence)
		if r.SpecificTerm != "" && r.SpecificTerm != r.RecognizedTerm {
			fmt.Fprintf(w, " via %q", r.SpecificTerm)
		}
		fmt.Fprintln(w)
	}

	for _, m := range r.AllMatches {
		fmt.Fprintf(w, "  %-14s %-24s %.1f%%\n", m.Category, m.Term, m.Confidence)
	}
	for _, p := range r.AllProbabilities {
		fmt.Fprintf(w, "  %-14s %6.2f%%\n", p.Label, p.Probability)
	}
	if len(r.Suggestions) > 0 {
		fmt.Fprintf(w, "suggestions: %s\n", strings.Join(r.Suggestions, ", "))
	}
}
