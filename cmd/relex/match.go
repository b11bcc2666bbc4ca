package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/coregx/relex"
	"github.com/coregx/relex/internal/config"
)

// Record is the outcome of matching one input.
type Record struct {
	Input   string `json:"input" yaml:"input"`
	Lexer   string `json:"lexer" yaml:"lexer"`
	Matched bool   `json:"matched" yaml:"matched"`
	Value   any    `json:"value,omitempty" yaml:"value,omitempty"`
}

// classify runs l over inputs with at most workers concurrent matches.
// Records come back in input order.
func classify(ctx context.Context, l relex.Lexer[any], name string, inputs []string, workers int) ([]Record, error) {
	records := make([]Record, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() (err error) {
			defer errRecover(&err)
			if err := gctx.Err(); err != nil {
				return err
			}

			v, ok := l.TryParse(in)
			records[i] = Record{Input: in, Lexer: name, Matched: ok}
			if ok {
				records[i].Value = printable(v)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

// printable renders values whose encoded form would be unreadable.
func printable(v any) any {
	switch v := v.(type) {
	case time.Duration:
		return v.String()
	default:
		return v
	}
}

func write(w io.Writer, format string, records []Record) error {
	switch format {
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		for _, r := range records {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
		return nil
	}
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

type panicError struct {
	v any
}

func (e panicError) Error() string {
	return fmt.Sprintf("relex: recovered from a panic caused by: %v", e.v)
}

func errRecover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	rerr, ok := r.(error)
	if !ok {
		*err = panicError{v: r}
		return
	}
	*err = rerr
}
