package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/itchyny/gojq"
	"golang.org/x/term"
)

const (
	formatTable = "table"
	formatJSON  = "json"

	jqTimeout = time.Second
)

// isTTY reports whether stdout is a color-capable terminal.
func isTTY() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if t := os.Getenv("TERM"); t == "" || t == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// output renders command results. A jq filter always produces JSON.
type output struct {
	w      io.Writer
	format string
	jq     string
	tty    bool
}

// render writes v as JSON or, in table mode, as the markdown produced by md.
func (o *output) render(ctx context.Context, v any, md func() string) error {
	if o.jq != "" {
		return o.renderJQ(ctx, v)
	}
	if o.format == formatJSON || md == nil {
		return o.renderJSON(v)
	}
	return o.renderMarkdown(md())
}

func (o *output) renderJSON(v any) error {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// renderMarkdown styles md with glamour on a terminal and prints it as-is
// otherwise.
func (o *output) renderMarkdown(md string) error {
	if !o.tty {
		_, err := io.WriteString(o.w, md)
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		_, err = io.WriteString(o.w, md)
		return err
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		_, err = io.WriteString(o.w, md)
		return err
	}
	_, err = io.WriteString(o.w, rendered)
	return err
}

// renderJQ runs the filter over the JSON form of v and prints each result.
func (o *output) renderJQ(ctx context.Context, v any) error {
	results, err := runJQ(ctx, o.jq, v)
	if err != nil {
		return err
	}
	for _, r := range results {
		if err := o.renderJSON(r); err != nil {
			return err
		}
	}
	return nil
}

func runJQ(ctx context.Context, expression string, v any) ([]any, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("jq compilation failed: %w", err)
	}

	// gojq only accepts plain JSON values
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var input any
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, jqTimeout)
	defer cancel()

	var results []any
	iter := code.RunWithContext(ctx, input)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := r.(error); isErr {
			return nil, fmt.Errorf("jq: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}

// table accumulates a markdown table.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

func newTable(title string, headers ...string) *table {
	return &table{title: title, headers: headers}
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) String() string {
	var b strings.Builder
	if t.title != "" {
		fmt.Fprintf(&b, "## %s\n\n", t.title)
	}
	if len(t.rows) == 0 {
		b.WriteString("_No results_\n")
		return b.String()
	}
	writeRow(&b, t.headers)
	seps := make([]string, len(t.headers))
	for i := range seps {
		seps[i] = "---"
	}
	writeRow(&b, seps)
	for _, r := range t.rows {
		writeRow(&b, r)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("|")
	for _, c := range cells {
		b.WriteString(" ")
		b.WriteString(strings.ReplaceAll(c, "|", `\|`))
		b.WriteString(" |")
	}
	b.WriteString("\n")
}
