package wbs

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// LoadCatalog reads and validates a catalog file. Files ending in .yaml or
// .yml are decoded as YAML, everything else as JSON.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var cat *Catalog
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cat, err = ParseCatalogYAML(data)
	default:
		cat, err = ParseCatalogJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// ParseCatalogJSON decodes a catalog from JSON. The activity list may be the
// document root, or live under "wbs_elements" or "activities".
func ParseCatalogJSON(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog payload is empty")
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("catalog payload is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	cat := &Catalog{Project: root.Get("project").String()}

	items := root
	if !root.IsArray() {
		items = firstExisting(root, "wbs_elements", "activities")
		if !items.IsArray() {
			return nil, fmt.Errorf("catalog has no wbs_elements array")
		}
	}

	items.ForEach(func(_, item gjson.Result) bool {
		cat.Activities = append(cat.Activities, activityFromJSON(item))
		return true
	})

	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseCatalogYAML decodes a catalog from YAML.
func ParseCatalogYAML(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("catalog payload is empty")
	}

	var raw struct {
		Project     string     `yaml:"project"`
		WBSElements []Activity `yaml:"wbs_elements"`
		Activities  []Activity `yaml:"activities"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	cat := &Catalog{Project: raw.Project, Activities: raw.WBSElements}
	if len(cat.Activities) == 0 {
		cat.Activities = raw.Activities
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

// ParseCommitmentsJSON decodes commitment records. Both the column names of
// the commitments table (wbs_id, committed_duration) and the shorter service
// names (wbs_item_id, duration) are accepted.
func ParseCommitmentsJSON(data []byte) ([]Commitment, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("commitments payload is not valid JSON")
	}

	root := gjson.ParseBytes(data)
	items := root
	if !root.IsArray() {
		items = root.Get("commitments")
	}

	var out []Commitment
	var bad []string
	n := 0
	items.ForEach(func(_, item gjson.Result) bool {
		n++
		c := Commitment{
			ID:                item.Get("id").String(),
			SessionID:         item.Get("session_id").String(),
			ActivityID:        firstExisting(item, "wbs_id", "wbs_item_id", "activity_id").String(),
			CommittedDuration: days(firstExisting(item, "committed_duration", "duration")),
			CommittedCost:     firstExisting(item, "committed_cost", "cost").Float(),
		}
		if ts := item.Get("committed_at").String(); ts != "" {
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				bad = append(bad, fmt.Sprintf("record #%d: committed_at: %v", n, err))
				return true
			}
			c.CommittedAt = t
		}
		if c.ActivityID == "" {
			bad = append(bad, fmt.Sprintf("record #%d has no activity id", n))
			return true
		}
		out = append(out, c)
		return true
	})

	if len(bad) > 0 {
		return nil, fmt.Errorf("invalid commitments: %s", strings.Join(bad, "; "))
	}
	return out, nil
}

func activityFromJSON(item gjson.Result) Activity {
	a := Activity{
		ID:               item.Get("id").String(),
		Name:             item.Get("name").String(),
		IsNegotiable:     item.Get("is_negotiable").Bool(),
		BaselineDuration: days(item.Get("baseline_duration")),
		LockedDuration:   days(item.Get("locked_duration")),
	}

	deps := item.Get("dependencies")
	switch {
	case deps.IsArray():
		deps.ForEach(func(_, d gjson.Result) bool {
			if id := strings.TrimSpace(d.String()); id != "" {
				a.Dependencies = append(a.Dependencies, id)
			}
			return true
		})
	case deps.Type == gjson.String:
		for _, id := range strings.Split(deps.String(), ",") {
			if id = strings.TrimSpace(id); id != "" {
				a.Dependencies = append(a.Dependencies, id)
			}
		}
	}
	return a
}

// days converts a JSON number of days to whole days, rounding fractions up.
func days(r gjson.Result) int {
	if !r.Exists() {
		return 0
	}
	return int(math.Ceil(r.Float()))
}

func firstExisting(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
