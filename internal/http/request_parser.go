package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dompet/internal/core"
	"dompet/internal/filter"
	"dompet/internal/ledger"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads a JSON object or a form-encoded body once and
// exposes its fields as strings.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]interface{}
	formData url.Values
	parsed   bool
	err      error
}

func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}
	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]interface{})
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a trimmed string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return strings.TrimSpace(sanitizeInput(stringValue(val)))
		}
		return ""
	}
	if p.formData != nil {
		return strings.TrimSpace(sanitizeInput(p.formData.Get(key)))
	}
	return ""
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput drops control characters other than tab and line breaks.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseTransactionInput reads one ingestion request. The amount may be a JSON
// number or a decimal string with a dot or comma separator.
func parseTransactionInput(p *RequestBodyParser) (ledger.Input, error) {
	if err := p.Parse(); err != nil {
		return ledger.Input{}, &core.ValidationError{Field: "body", Reason: err.Error()}
	}
	amount, err := core.ParseAmount(p.Get("amount"))
	if err != nil {
		return ledger.Input{}, err
	}
	return ledger.Input{
		Account:  core.Account(p.Get("account")),
		Kind:     core.Kind(strings.ToLower(p.Get("kind"))),
		Amount:   amount,
		Note:     p.Get("note"),
		Category: p.Get("category"),
		Date:     p.Get("date"),
	}, nil
}

// parseCriteria reads month, year and mode from the query. Absent parameters
// keep the value of view.
func parseCriteria(q url.Values, view filter.Criteria) (filter.Criteria, error) {
	c := view
	var err error
	if q.Has("month") {
		if c.Month, err = filter.ParseMonth(q.Get("month")); err != nil {
			return filter.Criteria{}, err
		}
	}
	if q.Has("year") {
		if c.Year, err = filter.ParseYear(q.Get("year")); err != nil {
			return filter.Criteria{}, err
		}
	}
	if q.Has("mode") {
		if c.Mode, err = filter.ParseMode(q.Get("mode")); err != nil {
			return filter.Criteria{}, err
		}
	}
	return c, nil
}
