package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrMalformedResponse is returned when a reply contains an array span that
// is not valid JSON.
var ErrMalformedResponse = errors.New("malformed review response")

// commentKeys lists the fields tried, in order, for the comment body.
var commentKeys = []string{"comment", "message", "description", "text"}

// ParseComments extracts review comments from a model reply.
//
// The span from the first '[' to the last ']' is decoded as a JSON array.
// A reply without such a span yields an empty list and no error.
func ParseComments(text string) ([]Comment, error) {
	comments := []Comment{}

	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return comments, nil
	}
	span := text[start : end+1]

	if !gjson.Valid(span) {
		var probe any
		if err := json.Unmarshal([]byte(span), &probe); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return nil, ErrMalformedResponse
	}

	gjson.Parse(span).ForEach(func(_, item gjson.Result) bool {
		if c, ok := commentFromJSON(item); ok {
			comments = append(comments, c)
		}
		return true
	})
	return comments, nil
}

func commentFromJSON(item gjson.Result) (Comment, bool) {
	if !item.IsObject() {
		return Comment{}, false
	}

	body := firstString(item, commentKeys)
	if body == "" {
		return Comment{}, false
	}

	c := Comment{
		File:     UnknownFile,
		Severity: SeveritySuggestion,
		Comment:  body,
	}
	if f := item.Get("file"); f.Type == gjson.String && f.Str != "" {
		c.File = f.Str
	}
	if s := item.Get("severity"); s.Type == gjson.String && s.Str != "" {
		c.Severity = Severity(s.Str)
	}
	c.Line = lineFromJSON(item.Get("line"))
	return c, true
}

func firstString(item gjson.Result, keys []string) string {
	for _, key := range keys {
		v := item.Get(key)
		if v.Type == gjson.String && strings.TrimSpace(v.Str) != "" {
			return v.Str
		}
	}
	return ""
}

// lineFromJSON accepts non-negative integers, as numbers or numeric strings.
func lineFromJSON(v gjson.Result) *int {
	switch v.Type {
	case gjson.Number:
		f := v.Num
		if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
			return nil
		}
		return LineNumber(int(f))
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil || n < 0 {
			return nil
		}
		return LineNumber(n)
	default:
		return nil
	}
}
