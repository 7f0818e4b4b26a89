package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/ftbench/internal/db"
)

// SearchText runs a full-text FT.SEARCH scored with the server default (BM25).
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.IndexName == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.TopK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}
	queryStr := buildTextQuery(q)
	if queryStr == "" {
		return nil, fmt.Errorf("query is required")
	}

	args := []string{q.IndexName, queryStr}

	if q.NoContent {
		args = append(args, "NOCONTENT")
	} else if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}

	args = append(args,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(q.TopK),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		if isUnknownIndex(err) {
			return nil, db.ErrIndexNotFound
		}
		return nil, opErr(db.OpSearch, err)
	}

	return parseTextResult(raw, !q.NoContent)
}

// buildTextQuery escapes each whitespace-separated term and joins them with
// intersection (default) or union (MatchAny), optionally scoped to fields.
func buildTextQuery(q *db.TextQuery) string {
	terms := strings.Fields(q.Query)
	if len(terms) == 0 {
		return ""
	}
	for i, t := range terms {
		terms[i] = escapeQuery(t)
	}

	sep := " "
	if q.MatchAny {
		sep = " | "
	}
	expr := strings.Join(terms, sep)

	if len(q.Fields) == 0 {
		if len(terms) > 1 && q.MatchAny {
			return "(" + expr + ")"
		}
		return expr
	}
	return fmt.Sprintf("@%s:(%s)", strings.Join(q.Fields, "|"), expr)
}

// parseTextResult decodes a WITHSCORES reply:
// [total, key1, score1, fields1, ...] or, with NOCONTENT, [total, key1, score1, ...].
func parseTextResult(raw []rueidis.RedisMessage, withFields bool) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	stride := 2
	if withFields {
		stride = 3
	}

	entries := make([]db.SearchEntry, 0, (len(raw)-1)/stride)
	for i := 1; i+stride-1 < len(raw); i += stride {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		entry := db.SearchEntry{Key: key, Score: score}
		if withFields {
			fields, err := raw[i+2].ToArray()
			if err != nil {
				continue
			}
			entry.Fields = parseFieldPairs(fields)
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`,`, `\,`,
	`.`, `\.`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`:`, `\:`,
	`+`, `\+`,
	`/`, `\/`,
	`&`, `\&`,
	`#`, `\#`,
)
