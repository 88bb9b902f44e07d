// Package masterdata owns the JSON config stores (parts, tool pricing,
// scrap costs, users). These files have been through several on-disk shapes
// over the life of the system, so every load runs through a normalizer that
// coerces whatever is found into the one canonical shape. Normalizers are
// pure and total: any input, including nil or garbage, comes out as a valid
// (possibly empty) store.
package masterdata

import (
	"strconv"
	"strings"

	"toollife/internal/models"
)

// NormalizeParts coerces a decoded parts file into the canonical store.
// Accepted shapes, tried in order:
//
//	{"parts": [...]}          canonical
//	{"data": [...]}           legacy key
//	[...]                     bare legacy list
//
// List elements may be full part objects, objects using the older "pn" or
// "part" keys, or bare part-number strings. Elements with no part number
// are dropped.
func NormalizeParts(raw interface{}) models.PartsStore {
	var items []interface{}
	switch v := raw.(type) {
	case map[string]interface{}:
		if list, ok := v["parts"].([]interface{}); ok {
			items = list
		} else if list, ok := v["data"].([]interface{}); ok {
			items = list
		}
	case []interface{}:
		items = v
	}

	out := models.PartsStore{Parts: []models.Part{}}
	for _, item := range items {
		switch p := item.(type) {
		case string:
			pn := strings.TrimSpace(p)
			if pn != "" {
				out.Parts = append(out.Parts, models.Part{PartNumber: pn, Lines: []string{}})
			}
		case map[string]interface{}:
			pn := firstString(p, "part_number", "pn", "part")
			if pn == "" {
				continue
			}
			out.Parts = append(out.Parts, models.Part{
				PartNumber: pn,
				Name:       strings.TrimSpace(asString(p["name"])),
				Lines:      normalizeLines(p["lines"]),
			})
		}
		// Anything else (numbers, nulls, nested lists) is dropped.
	}
	return out
}

// normalizeLines accepts a list of line names or a comma-separated string.
func normalizeLines(raw interface{}) []string {
	switch v := raw.(type) {
	case []interface{}:
		lines := []string{}
		for _, item := range v {
			if s := strings.TrimSpace(asString(item)); s != "" {
				lines = append(lines, s)
			}
		}
		return lines
	case string:
		lines := []string{}
		for _, part := range strings.Split(v, ",") {
			if s := strings.TrimSpace(part); s != "" {
				lines = append(lines, s)
			}
		}
		return lines
	}
	return []string{}
}

// NormalizeTools coerces a decoded tool pricing file into the canonical
// store. Accepts {"tools": {...}} or a bare map assumed to already be tool
// entries keyed by tool id.
func NormalizeTools(raw interface{}) models.ToolStore {
	out := models.ToolStore{Tools: map[string]models.Tool{}}

	m, ok := raw.(map[string]interface{})
	if !ok {
		return out
	}
	if inner, ok := m["tools"].(map[string]interface{}); ok {
		m = inner
	}

	for key, entry := range m {
		attrs, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		out.Tools[key] = models.Tool{
			Name:    asString(attrs["name"]),
			Cost:    asFloat(attrs["cost"], 0),
			Stock:   asInt(attrs["stock"], 0),
			Inserts: asInt(attrs["inserts"], 0),
		}
	}
	return out
}

// NormalizeCosts ensures the scrap cost store has a per-part override map
// and a numeric default, replacing wrong-typed values with empty ones.
func NormalizeCosts(raw interface{}) models.CostStore {
	out := models.CostStore{ScrapCostByPart: map[string]float64{}}

	m, ok := raw.(map[string]interface{})
	if !ok {
		return out
	}
	if byPart, ok := m["scrap_cost_by_part"].(map[string]interface{}); ok {
		for pn, cost := range byPart {
			out.ScrapCostByPart[pn] = asFloat(cost, 0)
		}
	}
	out.ScrapCostDefault = asFloat(m["scrap_cost_default"], 0)
	return out
}

// NormalizeUsers coerces a decoded users file into username -> attributes.
// Non-map input degrades to an empty map; non-map entries are dropped.
func NormalizeUsers(raw interface{}) map[string]models.User {
	out := map[string]models.User{}

	m, ok := raw.(map[string]interface{})
	if !ok {
		return out
	}
	for username, entry := range m {
		attrs, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		out[username] = models.User{
			Password: asString(attrs["password"]),
			Role:     asString(attrs["role"]),
			Name:     asString(attrs["name"]),
			Line:     asString(attrs["line"]),
		}
	}
	return out
}

// firstString returns the first non-empty trimmed string value among the
// given keys.
func firstString(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if s := strings.TrimSpace(asString(m[key])); s != "" {
			return s
		}
	}
	return ""
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asFloat(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	}
	return def
}

func asInt(v interface{}, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(f)
		}
	}
	return def
}
