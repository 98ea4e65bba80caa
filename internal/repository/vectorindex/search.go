package vectorindex

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/clearway-labs/signpost/internal/domain"
	"github.com/clearway-labs/signpost/internal/domain/search"
)

// Query runs a KNN vector similarity search via FT.SEARCH, honoring the
// category/problem metadata filter. Hits are returned nearest-first with
// their raw cosine distances.
func (ix *Index) Query(ctx context.Context, vector []float32, k int, f search.Filters) ([]search.Hit, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	filterStr := buildTagFilter(f)

	knnPart := fmt.Sprintf("[KNN %d @vector $BLOB]", k)
	var queryStr string
	if filterStr != "" {
		queryStr = fmt.Sprintf("(%s)=>%s", filterStr, knnPart)
	} else {
		queryStr = fmt.Sprintf("*=>%s", knnPart)
	}

	args := []string{ix.name, queryStr}
	args = append(args, "RETURN", strconv.Itoa(len(returnFields)+1))
	args = append(args, returnFields...)
	args = append(args, "__vector_score")
	args = append(args,
		"SORTBY", "__vector_score",
		"PARAMS", "2", "BLOB", vectorToBytes(vector),
		"DIALECT", "2",
	)

	cmd := ix.client.B().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := ix.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("ft.search: %w: %w", err, domain.ErrVectorIndexError)
	}

	return parseKNNResult(raw)
}

// buildTagFilter turns category/problem in-list constraints into Redis TAG
// clauses. Absent filters impose no constraint.
func buildTagFilter(f search.Filters) string {
	var clauses []string
	if len(f.Categories) > 0 {
		clauses = append(clauses, tagClause("category", f.Categories))
	}
	if len(f.Problems) > 0 {
		clauses = append(clauses, tagClause("problem", f.Problems))
	}
	return strings.Join(clauses, " ")
}

func tagClause(field string, values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escapeTag(v)
	}
	return fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))
}

// escapeTag escapes characters with query syntax meaning inside TAG values.
var tagEscaper = strings.NewReplacer(
	" ", "\\ ", ",", "\\,", ".", "\\.", "<", "\\<", ">", "\\>",
	"{", "\\{", "}", "\\}", "[", "\\[", "]", "\\]", "\"", "\\\"",
	"'", "\\'", ":", "\\:", ";", "\\;", "!", "\\!", "@", "\\@",
	"#", "\\#", "$", "\\$", "%", "\\%", "^", "\\^", "&", "\\&",
	"*", "\\*", "(", "\\(", ")", "\\)", "-", "\\-", "+", "\\+",
	"=", "\\=", "~", "\\~", "|", "\\|", "/", "\\/",
)

func escapeTag(v string) string {
	return tagEscaper.Replace(v)
}

// parseKNNResult decodes the RESP2 FT.SEARCH reply.
// Layout: [total, key1, fields1, key2, fields2, ...].
func parseKNNResult(raw []rueidis.RedisMessage) ([]search.Hit, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	hits := make([]search.Hit, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		if _, err := raw[i].ToString(); err != nil {
			continue
		}

		fieldMsgs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		fields := parseFieldPairs(fieldMsgs)

		hit := search.Hit{Record: recordFromFields(fields)}
		if scoreStr, ok := fields["__vector_score"]; ok {
			if d, err := strconv.ParseFloat(scoreStr, 64); err == nil {
				hit.Distance = d
			}
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

func parseFieldPairs(msgs []rueidis.RedisMessage) map[string]string {
	fields := make(map[string]string, len(msgs)/2)
	for i := 0; i+1 < len(msgs); i += 2 {
		k, err := msgs[i].ToString()
		if err != nil {
			continue
		}
		v, err := msgs[i+1].ToString()
		if err != nil {
			continue
		}
		fields[k] = v
	}
	return fields
}
