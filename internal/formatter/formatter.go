// package formatter streams catalog items to plain text, JSON lines, CSV and Markdown
package formatter

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"strings"

	"github.com/desertthunder/spotkit/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
)

// ParseFormat accepts a format name or a common file extension.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "text", "txt":
		return Text, nil
	case "json", "jsonl", "ndjson":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// Extension returns the file extension for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case JSON:
		return ".jsonl"
	case CSV:
		return ".csv"
	case Markdown:
		return ".md"
	default:
		return ".txt"
	}
}

// Writer streams items of one kind. Output is produced as items arrive, so a writer
// can sit directly behind a lazy pager.
type Writer[T any] struct {
	w       io.Writer
	format  Format
	title   string
	columns Columns[T]

	csv     *csv.Writer
	enc     *json.Encoder
	started bool
	count   int
}

// NewWriter creates a Writer. title is used as the text and Markdown heading.
func NewWriter[T any](w io.Writer, format Format, title string, columns Columns[T]) *Writer[T] {
	fw := &Writer[T]{w: w, format: format, title: title, columns: columns}
	switch format {
	case CSV:
		fw.csv = csv.NewWriter(w)
	case JSON:
		fw.enc = json.NewEncoder(w)
	}
	return fw
}

// Count returns the number of items written.
func (fw *Writer[T]) Count() int {
	return fw.count
}

func (fw *Writer[T]) header() error {
	fw.started = true
	switch fw.format {
	case CSV:
		if err := fw.csv.Write(fw.columns.Headers); err != nil {
			return fmt.Errorf("failed to write CSV headers: %w", err)
		}
	case Markdown:
		var b strings.Builder
		if fw.title != "" {
			fmt.Fprintf(&b, "# %s\n\n", fw.title)
		}
		fmt.Fprintf(&b, "| # | %s |\n", strings.Join(fw.columns.Headers, " | "))
		b.WriteString("|---|" + strings.Repeat("---|", len(fw.columns.Headers)) + "\n")
		if _, err := io.WriteString(fw.w, b.String()); err != nil {
			return err
		}
	case Text:
		if fw.title != "" {
			if _, err := fmt.Fprintf(fw.w, "%s\n\n", fw.title); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write emits one item.
func (fw *Writer[T]) Write(item T) error {
	if !fw.started {
		if err := fw.header(); err != nil {
			return err
		}
	}
	fw.count++

	switch fw.format {
	case JSON:
		if err := fw.enc.Encode(item); err != nil {
			return fmt.Errorf("failed to encode item %d: %w", fw.count, err)
		}
	case CSV:
		if err := fw.csv.Write(fw.columns.Row(item)); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	case Markdown:
		row := fw.columns.Row(item)
		for i, cell := range row {
			row[i] = escapeCell(cell)
		}
		if _, err := fmt.Fprintf(fw.w, "| %d | %s |\n", fw.count, strings.Join(row, " | ")); err != nil {
			return err
		}
	default:
		line := shared.JoinNonEmpty(" - ", fw.columns.Row(item)...)
		if _, err := fmt.Fprintf(fw.w, "%d. %s\n", fw.count, line); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered output and writes any footer.
func (fw *Writer[T]) Close() error {
	if !fw.started {
		if err := fw.header(); err != nil {
			return err
		}
	}

	switch fw.format {
	case CSV:
		fw.csv.Flush()
		if err := fw.csv.Error(); err != nil {
			return fmt.Errorf("CSV writer error: %w", err)
		}
	case Markdown:
		_, err := fmt.Fprintf(fw.w, "\n**Items**: %d\n", fw.count)
		return err
	case Text:
		if fw.count == 0 {
			_, err := io.WriteString(fw.w, "(no items)\n")
			return err
		}
	}
	return nil
}

// WriteAll drains seq into fw and closes it. It stops at the first error from either side.
func WriteAll[T any](ctx context.Context, fw *Writer[T], seq iter.Seq2[T, error]) (int, error) {
	for item, err := range seq {
		if err != nil {
			return fw.count, err
		}
		if err := ctx.Err(); err != nil {
			return fw.count, err
		}
		if err := fw.Write(item); err != nil {
			return fw.count, err
		}
	}
	return fw.count, fw.Close()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// Doer sends a single HTTP request. [*http.Client] satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DownloadImage fetches cover art. Image URLs are public CDN links and are sent unauthenticated.
func DownloadImage(ctx context.Context, d Doer, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("%w: empty image URL", shared.ErrURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrURL, err)
	}

	resp, err := d.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}
