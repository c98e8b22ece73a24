// Package render печатает ответы API в одном из форматов CLI.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

type Format string

const (
	Simple Format = "simple"
	Table  Format = "table"
	JSON   Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case Simple, Table, JSON:
		return f, nil
	case "":
		return Simple, nil
	}
	return "", fmt.Errorf("неизвестный формат вывода %q: ожидается simple, table или json", s)
}

// View - табличное представление ответа.
type View struct {
	Title   string
	Headers []string
	Rows    [][]string
	// Notes печатаются после данных, например пропущенные записи.
	Notes []string
}

type Printer struct {
	out    io.Writer
	format Format
	key    *color.Color
	title  *color.Color
	warn   *color.Color
}

func New(out io.Writer, format Format) *Printer {
	return &Printer{
		out:    out,
		format: format,
		key:    color.New(color.FgCyan),
		title:  color.New(color.Bold),
		warn:   color.New(color.FgYellow),
	}
}

// Print выводит v как JSON либо view в табличном или простом виде.
func (p *Printer) Print(v any, view View) error {
	switch p.format {
	case JSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case Table:
		return p.table(view)
	}
	return p.simple(view)
}

func (p *Printer) table(view View) error {
	if view.Title != "" {
		p.title.Fprintln(p.out, view.Title)
	}
	w := tabwriter.NewWriter(p.out, 0, 0, 2, ' ', 0)
	headers := make([]string, len(view.Headers))
	for i, h := range view.Headers {
		headers[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range view.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	p.notes(view.Notes)
	return nil
}

func (p *Printer) simple(view View) error {
	if view.Title != "" {
		p.title.Fprintln(p.out, view.Title)
	}
	if len(view.Rows) == 0 {
		fmt.Fprintln(p.out, "Ничего не найдено")
	}
	for i, row := range view.Rows {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		for j, cell := range row {
			if j >= len(view.Headers) {
				break
			}
			p.key.Fprintf(p.out, "%s: ", view.Headers[j])
			fmt.Fprintln(p.out, cell)
		}
	}
	p.notes(view.Notes)
	return nil
}

func (p *Printer) notes(notes []string) {
	for _, n := range notes {
		p.warn.Fprintln(p.out, n)
	}
}

// Fields превращает поля записи в строки key=value в порядке ключей.
func Fields(fields map[string]any, keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			out = append(out, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return out
}
