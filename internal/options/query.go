package options

import (
	"strings"
	"time"

	"tradeking-trader/internal/errors"
)

// queryFields is the whitelist of filterable option chain fields.
var queryFields = map[string]bool{
	"strikeprice": true,
	"xdate":       true,
	"xmonth":      true,
	"xyear":       true,
	"put_call":    true,
	"unique":      true,
}

// queryOps maps accepted operator spellings to their canonical form.
var queryOps = map[string]string{
	"<":  "lt",
	"lt": "lt",
	">":  "gt",
	"gt": "gt",
	">=": "gte", "gte": "gte",
	"<=": "lte", "lte": "lte",
	"=": "eq", "==": "eq", "eq": "eq",
}

// xdateLayouts are the accepted spellings of an xdate filter value.
var xdateLayouts = []string{
	"20060102",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"060102",
}

type queryClause struct {
	Field string
	Op    string
	Value string
}

// Query is an ordered set of validated option chain filter clauses,
// built from expressions like "strikeprice > 100". By default a clause
// that does not split into three tokens, names an unknown field, or
// uses an unknown operator is dropped silently; WithStrictFilters turns
// those drops into ErrInvalidArgument. xdate values are normalized to
// YYYYMMDD before storage.
type Query struct {
	clauses []queryClause
}

// QueryOption configures query parsing.
type QueryOption func(*querySettings)

type querySettings struct {
	strict bool
}

// WithStrictFilters makes unrecognized filter expressions an error
// instead of being dropped.
func WithStrictFilters() QueryOption {
	return func(s *querySettings) {
		s.strict = true
	}
}

// NewQuery parses filter expressions into a Query.
func NewQuery(expressions []string, opts ...QueryOption) (*Query, error) {
	var settings querySettings
	for _, opt := range opts {
		opt(&settings)
	}

	q := &Query{}
	for _, expression := range expressions {
		tokens := strings.Fields(expression)
		if len(tokens) != 3 {
			if settings.strict {
				return nil, errors.Wrapf(errors.ErrInvalidArgument,
					"filter %q does not split into field, operator, value", expression)
			}
			continue
		}

		field := strings.ToLower(tokens[0])
		op, opOK := queryOps[tokens[1]]
		value := tokens[2]

		if !queryFields[field] || !opOK {
			if settings.strict {
				return nil, errors.Wrapf(errors.ErrInvalidArgument,
					"filter %q uses an unknown field or operator", expression)
			}
			continue
		}

		if field == "xdate" {
			normalized, err := normalizeXDate(value)
			if err != nil {
				if settings.strict {
					return nil, err
				}
				continue
			}
			value = normalized
		}

		q.clauses = append(q.clauses, queryClause{Field: field, Op: op, Value: value})
	}
	return q, nil
}

// Len returns the number of retained clauses.
func (q *Query) Len() int {
	return len(q.clauses)
}

// String serializes the query in the chain-search wire format:
// "field-op:value AND field-op:value", in original input order.
func (q *Query) String() string {
	parts := make([]string, len(q.clauses))
	for i, clause := range q.clauses {
		parts[i] = clause.Field + "-" + clause.Op + ":" + clause.Value
	}
	return strings.Join(parts, " AND ")
}

func normalizeXDate(value string) (string, error) {
	for _, layout := range xdateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("20060102"), nil
		}
	}
	return "", errors.Wrapf(errors.ErrInvalidArgument, "xdate value %q is not a recognizable date", value)
}
