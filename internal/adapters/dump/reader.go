// Package dump streams raw records from local metadata dump files.
// Dumps arrive either as a single JSON array or as NDJSON, optionally
// gzipped; the reader hides that difference from the ingest pipeline
package dump

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxScanTokenSize = 32 * 1024 * 1024

// Reader streams one raw record at a time from a dump file
type Reader struct {
	f   *os.File
	gz  *gzip.Reader
	dec *json.Decoder
	sc  *bufio.Scanner

	inArray bool
	records int
}

// Open opens a dump file for streaming. The .gz suffix selects gzip; the
// first non-space byte selects array vs NDJSON framing
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{f: f}
	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("dump: open gzip %s: %w", path, err)
		}
		r.gz = gz
		src = gz
	}

	br := bufio.NewReader(src)
	head, err := peekNonSpace(br)
	if err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("dump: empty file %s", path)
	}

	if head == '[' {
		dec := json.NewDecoder(br)
		// consume the opening bracket so Next can stream elements
		if _, err := dec.Token(); err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("dump: read array open: %w", err)
		}
		r.dec = dec
		r.inArray = true
		return r, nil
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), maxScanTokenSize)
	r.sc = sc
	return r, nil
}

// Next returns the next record, or io.EOF when the dump is exhausted
func (r *Reader) Next() (map[string]any, error) {
	if r.inArray {
		if !r.dec.More() {
			return nil, io.EOF
		}
		var rec map[string]any
		if err := r.dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("dump: record %d: %w", r.records, err)
		}
		r.records++
		return rec, nil
	}

	for r.sc.Scan() {
		line := strings.TrimSpace(r.sc.Text())
		if line == "" {
			continue
		}
		var rec map[string]any
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("dump: record %d: %w", r.records, err)
		}
		r.records++
		return rec, nil
	}
	if err := r.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

// Records reports how many records have been returned so far
func (r *Reader) Records() int { return r.records }

// Close releases the underlying file handles
func (r *Reader) Close() error {
	var errs []error
	if r.gz != nil {
		if err := r.gz.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.f != nil {
		if err := r.f.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReadAll drains a dump file into memory. Batch ingest wants the whole
// slice; callers with huge dumps should loop Next themselves
func ReadAll(path string) ([]map[string]any, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var out []map[string]any
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}

// peekNonSpace returns the first non-whitespace byte without consuming it
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			if err := br.UnreadByte(); err != nil {
				return 0, err
			}
			return b, nil
		}
	}
}
