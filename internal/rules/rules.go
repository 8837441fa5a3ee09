// Package rules holds the keyword engine that assigns categories, merchant
// names and payment methods to raw statement descriptions.
package rules

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/karanversation/terminator/internal/database/repository"
)

//go:embed rules.yaml
var rulesYAML []byte

// regexPrefix marks a keyword as a regular expression instead of a
// substring match.
const regexPrefix = "r:"

// Rule is one category with its ordered keyword list.
type Rule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Tables holds the debit and credit rule sets. Slices, not maps: declaration
// order breaks score ties.
type Tables struct {
	Expense []Rule `yaml:"expense"`
	Income  []Rule `yaml:"income"`
}

type keyword struct {
	literal string
	pattern *regexp.Regexp // set when the keyword is a regex
	rawLen  int            // pattern length, used for the specificity bonus
}

type compiledRule struct {
	category string
	keywords []keyword
}

// Engine scores descriptions against the rule tables.
type Engine struct {
	expense []compiledRule
	income  []compiledRule
}

// NewEngine compiles the tables. Malformed regex keywords are dropped;
// a bad pattern must never take the whole engine down.
func NewEngine(t Tables) *Engine {
	return &Engine{
		expense: compileRules(t.Expense),
		income:  compileRules(t.Income),
	}
}

// Load builds the engine from the embedded rule tables.
func Load() (*Engine, error) {
	var t Tables
	if err := yaml.Unmarshal(rulesYAML, &t); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	return NewEngine(t), nil
}

// Categories returns every category the engine can assign: expense first,
// then income, deduplicated in declaration order, with the catch-all last.
func (e *Engine) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, table := range [][]compiledRule{e.expense, e.income} {
		for _, r := range table {
			if seen[r.category] {
				continue
			}
			seen[r.category] = true
			out = append(out, r.category)
		}
	}
	return append(out, repository.CatchAllCategory)
}

func compileRules(rules []Rule) []compiledRule {
	out := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{category: r.Category}
		for _, kw := range r.Keywords {
			kw = strings.TrimSpace(kw)
			if kw == "" {
				continue
			}
			if strings.HasPrefix(kw, regexPrefix) {
				pat := strings.ToLower(kw[len(regexPrefix):])
				re, err := regexp.Compile(pat)
				if err != nil {
					continue
				}
				cr.keywords = append(cr.keywords, keyword{pattern: re, rawLen: len(pat)})
				continue
			}
			cr.keywords = append(cr.keywords, keyword{literal: strings.ToLower(kw)})
		}
		out = append(out, cr)
	}
	return out
}
