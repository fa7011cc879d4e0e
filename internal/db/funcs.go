package db

import (
	"database/sql/driver"
	"fmt"
	"regexp"

	"github.com/sahilm/fuzzy"
	"modernc.org/sqlite"

	"github.com/stormlightlabs/clipstash/internal/cache"
)

// patternCapacity bounds the compiled regexp cache.
const patternCapacity = 64

var patterns = cache.NewLRU[string, *regexp.Regexp](patternCapacity)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("regexp", 2, regexpFunc)
	sqlite.MustRegisterDeterministicScalarFunction("fuzzy_search", 2, fuzzyFunc)
}

// compilePattern caches compiled patterns across rows and queries.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	if re, ok := patterns.Get(pattern); ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	patterns.Put(pattern, re)
	return re, nil
}

// regexp(text, pattern) reports whether pattern matches text.
func regexpFunc(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	text, pattern := valueString(args[0]), valueString(args[1])
	re, err := compilePattern(pattern)
	if err != nil {
		return nil, err
	}
	if re.MatchString(text) {
		return int64(1), nil
	}
	return int64(0), nil
}

// fuzzy_search(text, pattern) returns a positive score when pattern's
// characters appear in order in text, and 0 otherwise.
func fuzzyFunc(ctx *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	return FuzzyScore(valueString(args[0]), valueString(args[1])), nil
}

// FuzzyScore scores pattern against text. An empty pattern matches
// everything with score 1; matches scoring below 1 are clamped to 1.
func FuzzyScore(text, pattern string) int64 {
	if pattern == "" {
		return 1
	}
	matches := fuzzy.Find(pattern, []string{text})
	if len(matches) == 0 {
		return 0
	}
	return max(int64(matches[0].Score), 1)
}

func valueString(v driver.Value) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprint(x)
	}
}
