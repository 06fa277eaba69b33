// Package roster reads the list of stock symbols a run processes.
package roster

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yama6a/statement-scraper/internal/pkg/model"
	"gopkg.in/yaml.v3"
)

var ErrEmptyRoster = errors.New("roster has no symbols")

// File is the YAML roster layout. A plain YAML list of symbols is accepted as well.
type File struct {
	Symbols []string `yaml:"symbols"`
}

// Load reads a roster file. YAML files (.yaml, .yml) hold a list or a "symbols" key,
// any other file holds one symbol per line with "#" starting a comment.
func Load(path string) ([]model.Symbol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	var raw []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		raw, err = parseYAML(data)
	default:
		raw, err = parseText(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse roster %s: %w", path, err)
	}

	return Merge(raw), nil
}

func parseYAML(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	if node.Content[0].Kind == yaml.SequenceNode {
		var list []string
		if err := node.Content[0].Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var f File
	if err := node.Content[0].Decode(&f); err != nil {
		return nil, err
	}
	return f.Symbols, nil
}

func parseText(data []byte) ([]string, error) {
	var symbols []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		for _, field := range strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' }) {
			symbols = append(symbols, field)
		}
	}
	return symbols, scanner.Err()
}

// Merge upper-cases and trims the symbols of all lists and drops blanks and duplicates,
// keeping the first occurrence.
func Merge(lists ...[]string) []model.Symbol {
	seen := map[string]bool{}
	var out []model.Symbol
	for _, list := range lists {
		for _, s := range list {
			s = strings.ToUpper(strings.TrimSpace(s))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, model.Symbol(s))
		}
	}
	return out
}
