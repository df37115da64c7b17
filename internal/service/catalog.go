package service

import (
	"fmt"
	"strings"

	"github.com/set-night/subguard/internal/config"
	"github.com/set-night/subguard/internal/domain"
	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Brokers []struct {
		Name            string `yaml:"name"`
		UnsubscribeLink string `yaml:"unsubscribe_link"`
		Email           string `yaml:"email"`
		Phone           string `yaml:"phone"`
	} `yaml:"brokers"`
}

// Catalog is the static, read-only table of known services.
type Catalog struct {
	entries []domain.BrokerEntry
	lower   []string
}

// LoadCatalog parses a YAML catalog document.
func LoadCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	c := &Catalog{}
	for _, b := range f.Brokers {
		name := strings.TrimSpace(b.Name)
		if name == "" {
			return nil, fmt.Errorf("catalog entry %d has no name", len(c.entries))
		}
		c.entries = append(c.entries, domain.BrokerEntry{
			Index:           len(c.entries),
			Name:            name,
			UnsubscribeLink: orNoData(b.UnsubscribeLink),
			Email:           orNoData(b.Email),
			Phone:           orNoData(b.Phone),
		})
		c.lower = append(c.lower, strings.ToLower(name))
	}
	return c, nil
}

func orNoData(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.NoData
	}
	return v
}

// Search returns entries whose name contains query, case-insensitively, in
// catalog order and capped to MaxSearchResults.
func (c *Catalog) Search(query string) []domain.BrokerEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var out []domain.BrokerEntry
	for i, name := range c.lower {
		if strings.Contains(name, q) {
			out = append(out, c.entries[i])
			if len(out) == config.MaxSearchResults {
				break
			}
		}
	}
	return out
}

// ByIndex returns the entry at a catalog position.
func (c *Catalog) ByIndex(i int) (domain.BrokerEntry, bool) {
	if i < 0 || i >= len(c.entries) {
		return domain.BrokerEntry{}, false
	}
	return c.entries[i], true
}

func (c *Catalog) Len() int {
	return len(c.entries)
}
