package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const studyGroup = "Study sheets"

// newDocsJSON is the file written when the output directory has none.
func newDocsJSON() map[string]interface{} {
	return map[string]interface{}{
		"$schema": "https://mintlify.com/docs.json",
		"theme":   "mint",
		"name":    "Study Sheets",
		"colors": map[string]string{
			"primary": "#16A34A",
			"light":   "#07C983",
			"dark":    "#15803D",
		},
		"navigation": map[string]interface{}{},
	}
}

type navGroup struct {
	Group string   `json:"group"`
	Pages []string `json:"pages"`
}

// addToDocsJSON lists slug under the study sheet group. Keys, tabs and groups
// it does not own pass through unchanged. When navigation uses tabs the group
// goes under the first tab.
func addToDocsJSON(path, slug string) error {
	doc := map[string]json.RawMessage{}
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		seed, err := json.Marshal(newDocsJSON())
		if err != nil {
			return err
		}
		b = seed
	case err != nil:
		return err
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}

	nav := map[string]json.RawMessage{}
	if err := decodeOptional(doc["navigation"], &nav); err != nil {
		return fmt.Errorf("navigation: %w", err)
	}

	if rawTabs, ok := nav["tabs"]; ok {
		var tabs []map[string]json.RawMessage
		if err := decodeOptional(rawTabs, &tabs); err != nil {
			return fmt.Errorf("navigation.tabs: %w", err)
		}
		if len(tabs) == 0 {
			tabs = append(tabs, map[string]json.RawMessage{"tab": json.RawMessage(`"Documentation"`)})
		}
		groups, err := addToGroups(tabs[0]["groups"], slug)
		if err != nil {
			return fmt.Errorf("navigation.tabs[0].groups: %w", err)
		}
		tabs[0]["groups"] = groups
		if nav["tabs"], err = json.Marshal(tabs); err != nil {
			return err
		}
	} else {
		groups, err := addToGroups(nav["groups"], slug)
		if err != nil {
			return fmt.Errorf("navigation.groups: %w", err)
		}
		nav["groups"] = groups
	}

	if doc["navigation"], err = json.Marshal(nav); err != nil {
		return err
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

// addToGroups appends slug to the study sheet group, creating the group when
// missing. Other groups are kept as raw JSON.
func addToGroups(raw json.RawMessage, slug string) (json.RawMessage, error) {
	var groups []json.RawMessage
	if err := decodeOptional(raw, &groups); err != nil {
		return nil, err
	}
	for i, g := range groups {
		var own map[string]json.RawMessage
		if json.Unmarshal(g, &own) != nil {
			continue
		}
		var name string
		if json.Unmarshal(own["group"], &name) != nil || name != studyGroup {
			continue
		}
		var pages []json.RawMessage
		if err := decodeOptional(own["pages"], &pages); err != nil {
			return nil, err
		}
		if !hasPage(pages, slug) {
			page, _ := json.Marshal(slug)
			pages = append(pages, page)
		}
		var err error
		if own["pages"], err = json.Marshal(pages); err != nil {
			return nil, err
		}
		if groups[i], err = json.Marshal(own); err != nil {
			return nil, err
		}
		return json.Marshal(groups)
	}
	g, err := json.Marshal(navGroup{Group: studyGroup, Pages: []string{slug}})
	if err != nil {
		return nil, err
	}
	return json.Marshal(append(groups, g))
}

func hasPage(pages []json.RawMessage, slug string) bool {
	for _, p := range pages {
		var s string
		if json.Unmarshal(p, &s) == nil && s == slug {
			return true
		}
	}
	return false
}

// decodeOptional leaves v untouched for a missing or null value.
func decodeOptional(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9\-]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimSuffix(s, ".pdf")
	s = strings.NewReplacer(" ", "-", "/", "-", ".", "-", "_", "-").Replace(s)
	s = nonSlug.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return s
}
