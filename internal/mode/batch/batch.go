// ABOUTME: Batch mode: answers many independent utterances concurrently and writes JSONL results
// ABOUTME: Input is plain lines or JSONL items; output keeps input order

package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/pi-offline-go/internal/conversation"
	"github.com/mauromedda/pi-offline-go/internal/engine"
	"github.com/mauromedda/pi-offline-go/internal/entity"
	"github.com/mauromedda/pi-offline-go/internal/log"
)

// Item is one utterance to answer. Lines that are not JSON objects become
// items with the line as Text and the line number as ID.
type Item struct {
	ID      string               `json:"id,omitempty"`
	Text    string               `json:"text"`
	History conversation.History `json:"history,omitempty"`
}

// Result is one answered item.
type Result struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   []entity.Label `json:"entities"`
	Reply      string         `json:"reply,omitempty"`
	Branch     string         `json:"branch,omitempty"`
}

// Config configures a batch run.
type Config struct {
	Workers      int  // concurrent workers; defaults to GOMAXPROCS
	ClassifyOnly bool // skip reply synthesis
}

// ReadItems parses r into items. Blank lines are skipped.
func ReadItems(r io.Reader) ([]Item, error) {
	var items []Item
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		it := Item{Text: line}
		if strings.HasPrefix(line, "{") {
			if err := json.Unmarshal([]byte(line), &it); err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
		}
		if it.ID == "" {
			it.ID = strconv.Itoa(n)
		}
		items = append(items, it)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}
	return items, nil
}

// Process answers every item with eng. Results are returned in input order.
// Canceling ctx stops pending items and returns the context error.
func Process(ctx context.Context, eng *engine.Engine, items []Item, cfg Config) ([]Result, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]Result, len(items))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, it := range items {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = answer(eng, it, cfg.ClassifyOnly)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("batch: %w", err)
	}
	log.Debug("batch: %d items with %d workers", len(items), workers)
	return results, nil
}

func answer(eng *engine.Engine, it Item, classifyOnly bool) Result {
	if classifyOnly {
		r := eng.Analyze(it.Text)
		return Result{ID: it.ID, Text: it.Text, Intent: r.Intent.String(), Confidence: r.Confidence, Entities: r.Entities}
	}
	tr := eng.Trace(it.Text, it.History)
	return Result{
		ID:         it.ID,
		Text:       it.Text,
		Intent:     tr.Intent.String(),
		Confidence: tr.Confidence,
		Entities:   tr.Entities,
		Reply:      tr.Reply.Text,
		Branch:     tr.Reply.Branch,
	}
}

// WriteResults writes one JSON object per result.
func WriteResults(w io.Writer, results []Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// Run reads items from r, answers them and writes JSONL to w.
func Run(ctx context.Context, eng *engine.Engine, r io.Reader, w io.Writer, cfg Config) error {
	items, err := ReadItems(r)
	if err != nil {
		return err
	}
	results, err := Process(ctx, eng, items, cfg)
	if err != nil {
		return err
	}
	return WriteResults(w, results)
}
