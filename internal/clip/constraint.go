package clip

import (
	"encoding/json"
	"fmt"
)

// ConstraintKind names a search constraint. The values double as the JSON
// "type" tag.
type ConstraintKind string

const (
	TextContains         ConstraintKind = "textContains"
	TextRegex            ConstraintKind = "textRegex"
	TextFuzzy            ConstraintKind = "textFuzzy"
	TimestampGreaterThan ConstraintKind = "timestampGreaterThan"
	TimestampLessThan    ConstraintKind = "timestampLessThan"
	HasLabel             ConstraintKind = "hasLabel"
	NotHasLabel          ConstraintKind = "notHasLabel"
	Limit                ConstraintKind = "limit"
)

// Numeric reports whether the constraint carries an integer operand.
func (k ConstraintKind) Numeric() bool {
	return k == TimestampGreaterThan || k == TimestampLessThan || k == Limit
}

func (k ConstraintKind) valid() bool {
	switch k {
	case TextContains, TextRegex, TextFuzzy, TimestampGreaterThan, TimestampLessThan, HasLabel, NotHasLabel, Limit:
		return true
	}
	return false
}

// Constraint is one element of a search request. Text holds the operand of
// text and label constraints, Number the operand of timestamp and limit ones.
type Constraint struct {
	Kind   ConstraintKind
	Text   string
	Number int64
}

func Contains(s string) Constraint { return Constraint{Kind: TextContains, Text: s} }
func Regex(s string) Constraint { return Constraint{Kind: TextRegex, Text: s} }
func Fuzzy(s string) Constraint { return Constraint{Kind: TextFuzzy, Text: s} }
func After(ts int64) Constraint { return Constraint{Kind: TimestampGreaterThan, Number: ts} }
func Before(ts int64) Constraint { return Constraint{Kind: TimestampLessThan, Number: ts} }
func WithLabel(l string) Constraint { return Constraint{Kind: HasLabel, Text: l} }
func WithoutLabel(l string) Constraint { return Constraint{Kind: NotHasLabel, Text: l} }
func MaxResults(n int64) Constraint { return Constraint{Kind: Limit, Number: n} }

func (c Constraint) String() string {
	if c.Kind.Numeric() {
		return fmt.Sprintf("%s(%d)", c.Kind, c.Number)
	}
	return fmt.Sprintf("%s(%q)", c.Kind, c.Text)
}

type wireConstraint struct {
	Type ConstraintKind  `json:"type"`
	Data json.RawMessage `json:"data"`
}

func (c Constraint) MarshalJSON() ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if c.Kind.Numeric() {
		data, err = json.Marshal(c.Number)
	} else {
		data, err = json.Marshal(c.Text)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireConstraint{Type: c.Kind, Data: data})
}

func (c *Constraint) UnmarshalJSON(b []byte) error {
	var w wireConstraint
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	if !w.Type.valid() {
		return fmt.Errorf("unknown search constraint: %q", w.Type)
	}
	out := Constraint{Kind: w.Type}
	if w.Type.Numeric() {
		if err := json.Unmarshal(w.Data, &out.Number); err != nil {
			return fmt.Errorf("%s: %w", w.Type, err)
		}
	} else if err := json.Unmarshal(w.Data, &out.Text); err != nil {
		return fmt.Errorf("%s: %w", w.Type, err)
	}
	*c = out
	return nil
}
