package nbastats

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ResultSet is one named table of a stats API response.
type ResultSet struct {
	Name    string
	Headers []string
	Rows    [][]gjson.Result

	index map[string]int
}

// Col returns the value of header in row, or an empty result if the column
// does not exist.
func (rs *ResultSet) Col(row []gjson.Result, header string) gjson.Result {
	i, ok := rs.index[header]
	if !ok || i >= len(row) {
		return gjson.Result{}
	}
	return row[i]
}

// Has reports whether the result set carries header.
func (rs *ResultSet) Has(header string) bool {
	_, ok := rs.index[header]
	return ok
}

// ParseResultSets decodes every result set in body keyed by name. Both the
// "resultSets" list and the single "resultSet" object forms are accepted.
func ParseResultSets(body []byte) (map[string]*ResultSet, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding response: invalid JSON (body: %s)", truncate(body, 200))
	}
	root := gjson.ParseBytes(body)

	var sets []gjson.Result
	if rs := root.Get("resultSets"); rs.IsArray() {
		sets = rs.Array()
	} else if rs := root.Get("resultSet"); rs.IsObject() {
		sets = []gjson.Result{rs}
	} else {
		return nil, fmt.Errorf("decoding response: no result sets")
	}

	out := make(map[string]*ResultSet, len(sets))
	for _, set := range sets {
		rs := &ResultSet{
			Name:  set.Get("name").String(),
			index: make(map[string]int),
		}
		for i, h := range set.Get("headers").Array() {
			rs.Headers = append(rs.Headers, h.String())
			rs.index[h.String()] = i
		}
		for _, row := range set.Get("rowSet").Array() {
			rs.Rows = append(rs.Rows, row.Array())
		}
		out[rs.Name] = rs
	}
	return out, nil
}

func resultSet(sets map[string]*ResultSet, name string, required ...string) (*ResultSet, error) {
	rs, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("result set %s missing", name)
	}
	for _, h := range required {
		if !rs.Has(h) {
			return nil, fmt.Errorf("result set %s: column %s missing", name, h)
		}
	}
	return rs, nil
}
