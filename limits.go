package siteindex

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Upper bounds applied to every crawl regardless of what the caller asks for.
const (
	DefaultPageCap  = 40
	DefaultDepthCap = 2
)

// CrawlLimits bounds a single crawl.
type CrawlLimits struct {
	MaxPages int `json:"max_pages"`
	MaxDepth int `json:"max_depth"`
}

// DefaultLimits returns the limits used when the caller supplies none.
func DefaultLimits() CrawlLimits {
	return CrawlLimits{MaxPages: DefaultPageCap, MaxDepth: DefaultDepthCap}
}

// Clamp bounds pages to [1, pageCap] and depth to [0, depthCap].
// Non-positive caps fall back to the defaults.
func (l CrawlLimits) Clamp(pageCap, depthCap int) CrawlLimits {
	if pageCap < 1 {
		pageCap = DefaultPageCap
	}
	if depthCap < 0 {
		depthCap = DefaultDepthCap
	}
	return CrawlLimits{
		MaxPages: min(max(l.MaxPages, 1), pageCap),
		MaxDepth: min(max(l.MaxDepth, 0), depthCap),
	}
}

// FlexInt is an integer argument supplied by a tool caller.
// It accepts JSON numbers and numeric strings; anything else leaves it unset
// instead of failing the whole request.
type FlexInt struct {
	Value int
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	switch v := raw.(type) {
	case float64:
		f.set(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			f.Value, f.Set = n, true
		} else if x, err := strconv.ParseFloat(s, 64); err == nil {
			f.set(x)
		}
	}
	return nil
}

func (f *FlexInt) set(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	x = math.Trunc(x)
	x = math.Max(math.Min(x, math.MaxInt32), math.MinInt32)
	f.Value, f.Set = int(x), true
}

// MarshalJSON implements json.Marshaler.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def if the value was not supplied.
func (f FlexInt) Or(def int) int {
	if !f.Set {
		return def
	}
	return f.Value
}
