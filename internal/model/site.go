package model

import (
	"sort"
	"strings"
)

// SiteEntry describes one supported source site
type SiteEntry struct {
	Key         string `json:"key" yaml:"key"`   // Lowercase, matched as a substring of candidate URLs
	Name        string `json:"name" yaml:"name"` // Display name
	Icon        string `json:"icon" yaml:"icon"`
	Category    string `json:"category,omitempty" yaml:"category,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Enabled     bool   `json:"enabled" yaml:"enabled"`
}

// SiteDirectory is the loaded set of supported sites.
// It is replaced wholesale on reload and never patched in place.
type SiteDirectory struct {
	Entries       map[string]SiteEntry `json:"entries"`
	Loaded        bool                 `json:"loaded"`
	UsingFallback bool                 `json:"using_fallback"`
}

// Badge is the display projection of an enabled site
type Badge struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// Keys returns the directory keys in sorted order
func (d SiteDirectory) Keys() []string {
	keys := make([]string, 0, len(d.Entries))
	for k := range d.Entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Badges returns enabled sites sorted by name, case-insensitive ascending
func (d SiteDirectory) Badges() []Badge {
	badges := make([]Badge, 0, len(d.Entries))
	for _, e := range d.Entries {
		if !e.Enabled {
			continue
		}
		badges = append(badges, Badge{
			Name:        e.Name,
			Icon:        e.Icon,
			Category:    e.Category,
			Description: e.Description,
		})
	}

	sort.SliceStable(badges, func(i, j int) bool {
		a, b := strings.ToLower(badges[i].Name), strings.ToLower(badges[j].Name)
		if a != b {
			return a < b
		}
		// Stable order for names differing only in case
		return badges[i].Name < badges[j].Name
	})

	return badges
}
