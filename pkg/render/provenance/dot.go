package provenance

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/upstreamer/pkg/normalize"
	"github.com/matzehuels/upstreamer/pkg/upstream"
)

// Options configures provenance rendering.
type Options struct {
	// Detailed adds each guessed value to its edge label.
	Detailed bool
	// Fields limits the graph to these fields. Empty means all.
	Fields []upstream.Field
}

// maxValueLen truncates values shown in labels.
const maxValueLen = 48

// Edge is one distinct guess drawn in the graph.
type Edge struct {
	Origin    upstream.Origin
	Field     upstream.Field
	Value     string
	Certainty upstream.Certainty
	// Chosen is set when the guess supplied the record's value.
	Chosen bool
}

// Edges returns the distinct guesses for the selected fields in a stable
// order: by field, then chosen first, then origin order.
func Edges(rec *upstream.Record, guesses []upstream.Guess, opts Options) []Edge {
	type key struct {
		origin upstream.Origin
		field  upstream.Field
		value  string
		cert   upstream.Certainty
	}
	seen := make(map[key]bool)
	var out []Edge
	for _, g := range guesses {
		if g.IsZero() || !selected(g.Field(), opts.Fields) {
			continue
		}
		n := normalize.Guess(g)
		k := key{n.Origin(), n.Field(), n.Value().Key(), n.Certainty()}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, Edge{
			Origin:    n.Origin(),
			Field:     n.Field(),
			Value:     n.Value().String(),
			Certainty: n.Certainty(),
			Chosen:    chosen(rec, n),
		})
	}
	slices.SortStableFunc(out, func(a, b Edge) int {
		if a.Field != b.Field {
			return int(a.Field) - int(b.Field)
		}
		if a.Chosen != b.Chosen {
			if a.Chosen {
				return -1
			}
			return 1
		}
		if a.Origin != b.Origin {
			if a.Origin.Before(b.Origin) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Value, b.Value)
	})
	return out
}

func selected(f upstream.Field, fields []upstream.Field) bool {
	return len(fields) == 0 || slices.Contains(fields, f)
}

func chosen(rec *upstream.Record, n upstream.Guess) bool {
	e, ok := rec.Get(n.Field())
	return ok && e.Origin == n.Origin() && e.Certainty == n.Certainty() && e.Value.Key() == n.Value().Key()
}

// ToDOT converts a record and the guesses behind it to Graphviz DOT.
// Fields with guesses but no record entry (every guess was rejected) are
// drawn greyed out.
func ToDOT(rec *upstream.Record, guesses []upstream.Guess, opts Options) string {
	edges := Edges(rec, guesses, opts)

	var buf bytes.Buffer
	buf.WriteString("digraph provenance {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("  ranksep=1.2;\n")
	buf.WriteString("\n")

	writeOrigins(&buf, edges)
	writeFields(&buf, rec, edges)

	buf.WriteString("\n")
	for _, e := range edges {
		attrs := []string{fmt.Sprintf("label=%q", edgeLabel(e, opts.Detailed))}
		if e.Chosen {
			attrs = append(attrs, "penwidth=2")
		} else {
			attrs = append(attrs, "style=dashed", "color=grey50", "fontcolor=grey50")
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", originID(e.Origin), fieldID(e.Field), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeOrigins emits one cluster per origin class, highest priority first.
func writeOrigins(buf *bytes.Buffer, edges []Edge) {
	byClass := make(map[upstream.OriginClass][]upstream.Origin)
	for _, e := range edges {
		if !slices.Contains(byClass[e.Origin.Class], e.Origin) {
			byClass[e.Origin.Class] = append(byClass[e.Origin.Class], e.Origin)
		}
	}
	classes := make([]upstream.OriginClass, 0, len(byClass))
	for c := range byClass {
		classes = append(classes, c)
	}
	slices.SortFunc(classes, func(a, b upstream.OriginClass) int { return b.Priority() - a.Priority() })

	for _, c := range classes {
		origins := byClass[c]
		slices.SortFunc(origins, func(a, b upstream.Origin) int {
			if a.Before(b) {
				return -1
			}
			if b.Before(a) {
				return 1
			}
			return 0
		})
		fmt.Fprintf(buf, "  subgraph %q {\n", "cluster_"+c.String())
		fmt.Fprintf(buf, "    label=%q;\n", c.String())
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, o := range origins {
			fmt.Fprintf(buf, "    %q [label=%q];\n", originID(o), o.String())
		}
		buf.WriteString("  }\n")
	}
}

func writeFields(buf *bytes.Buffer, rec *upstream.Record, edges []Edge) {
	var fields []upstream.Field
	for _, e := range edges {
		if !slices.Contains(fields, e.Field) {
			fields = append(fields, e.Field)
		}
	}
	for _, f := range fields {
		e, ok := rec.Get(f)
		if !ok {
			fmt.Fprintf(buf, "  %q [label=%q, fillcolor=grey90, fontcolor=grey40];\n", fieldID(f), f.String())
			continue
		}
		label := f.String() + "\n" + truncate(e.Value.String()) + "\n(" + e.Certainty.String() + ")"
		fmt.Fprintf(buf, "  %q [label=%q, fillcolor=%q];\n", fieldID(f), label, certaintyColor(e.Certainty))
	}
}

func edgeLabel(e Edge, detailed bool) string {
	if !detailed {
		return e.Certainty.String()
	}
	return e.Certainty.String() + ": " + truncate(e.Value)
}

func certaintyColor(c upstream.Certainty) string {
	switch c {
	case upstream.Certain:
		return "#b7e1cd"
	case upstream.Confident:
		return "#d9ead3"
	case upstream.Likely:
		return "#fff2cc"
	default:
		return "#fce5cd"
	}
}

func originID(o upstream.Origin) string { return "origin:" + o.Class.String() + ":" + o.Label }
func fieldID(f upstream.Field) string   { return "field:" + f.String() }

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxValueLen {
		return s
	}
	return string(r[:maxValueLen-1]) + "…"
}
