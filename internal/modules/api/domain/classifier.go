package domain

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	sessiondomain "dareNowConsole/internal/modules/session/domain"
)

// Class is the session requirement of a remote API path.
type Class string

const (
	ClassPublic     Class = "public"
	ClassRestaurant Class = "restaurant"
	ClassAdmin      Class = "admin"
)

// Variant returns the session variant guarding the class; public has none.
func (c Class) Variant() (sessiondomain.Variant, bool) {
	switch c {
	case ClassAdmin:
		return sessiondomain.VariantAdmin, true
	case ClassRestaurant:
		return sessiondomain.VariantRestaurant, true
	default:
		return "", false
	}
}

func (c Class) valid() bool {
	return c == ClassPublic || c == ClassRestaurant || c == ClassAdmin
}

// Rule assigns Class to every path containing all of Contains.
type Rule struct {
	Class    Class    `yaml:"class"`
	Contains []string `yaml:"contains"`
}

func (r Rule) matches(path string) bool {
	if len(r.Contains) == 0 {
		return false
	}
	for _, fragment := range r.Contains {
		if !strings.Contains(path, fragment) {
			return false
		}
	}
	return true
}

// DefaultRules is the remote API's path layout. Public rules come first so the search
// endpoint under /place/ is never taken for a restaurant call.
func DefaultRules() []Rule {
	return []Rule{
		{Class: ClassPublic, Contains: []string{"/place/search"}},
		{Class: ClassRestaurant, Contains: []string{"/table-booking"}},
		{Class: ClassRestaurant, Contains: []string{"/place/login"}},
		{Class: ClassRestaurant, Contains: []string{"/place/", "/slots"}},
	}
}

// Classifier maps request paths to classes; paths matching no rule are admin calls.
type Classifier struct {
	rules []Rule
}

func NewClassifier(rules []Rule) (*Classifier, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	for i, rule := range rules {
		if !rule.Class.valid() {
			return nil, fmt.Errorf("rule %d: unknown class %q", i, rule.Class)
		}
		if len(rule.Contains) == 0 {
			return nil, fmt.Errorf("rule %d: no path fragments", i)
		}
	}
	return &Classifier{rules: append([]Rule(nil), rules...)}, nil
}

// Classify looks at the path only; query strings never change the class.
func (c *Classifier) Classify(path string) Class {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	for _, rule := range c.rules {
		if rule.matches(path) {
			return rule.Class
		}
	}
	return ClassAdmin
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a YAML rules file:
//
//	rules:
//	  - class: public
//	    contains: ["/place/search"]
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	if len(file.Rules) == 0 {
		return nil, errors.New("rules file defines no rules")
	}
	for i := range file.Rules {
		file.Rules[i].Class = Class(strings.ToLower(strings.TrimSpace(string(file.Rules[i].Class))))
	}
	return file.Rules, nil
}
