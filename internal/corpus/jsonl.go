package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

// maxLineSize bounds a single JSONL record; long wiki articles fit comfortably.
var maxLineSize = 16 << 20

func readJSONL(ctx context.Context, path string, b *builder) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := bufio.NewReaderSize(f, 64*1024)
	for line := 1; ; line++ {
		if line%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		raw, tooLong, err := readLine(r, maxLineSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read %s at line %d: %w", path, line, err)
		}
		eof := err != nil

		if tooLong {
			b.res.Records++
			b.skip(line, fmt.Sprintf("record exceeds %d bytes", maxLineSize))
		} else if raw = bytes.TrimSpace(raw); len(raw) > 0 {
			fields, derr := decodeRecord(raw)
			if derr != nil {
				b.res.Records++
				b.skip(line, derr.Error())
			} else if !b.add(line, fields) {
				return nil
			}
		}

		if eof {
			return nil
		}
	}
}

// readLine returns the next line including its terminator. A line longer than
// limit is consumed up to its newline and reported as tooLong with no data.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var buf []byte
	tooLong := false
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			buf = append(buf, chunk...)
			size := len(buf)
			if err == nil {
				size--
			}
			if size > limit {
				tooLong, buf = true, nil
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return buf, tooLong, err
	}
}

// decodeRecord parses one JSON object into flat string fields.
// Scalars are stringified, nested values are kept as compact JSON, nulls are dropped.
func decodeRecord(raw []byte) (map[string]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var obj map[string]json.RawMessage
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("record is not a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after JSON object")
	}

	fields := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok, err := flatten(v)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		if ok {
			fields[k] = s
		}
	}
	return fields, nil
}

func flatten(v json.RawMessage) (string, bool, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 {
		return "", false, nil
	}
	switch v[0] {
	case 'n':
		return "", false, nil
	case '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	case 't', 'f':
		var bv bool
		if err := json.Unmarshal(v, &bv); err != nil {
			return "", false, err
		}
		return strconv.FormatBool(bv), true, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return "", false, err
		}
		return buf.String(), true, nil
	default:
		var n json.Number
		if err := json.Unmarshal(v, &n); err != nil {
			return "", false, err
		}
		return n.String(), true, nil
	}
}
