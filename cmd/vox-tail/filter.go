// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/jsonc"
)

// eventFilter decides which event types reach stdout. Exclude patterns
// take precedence over include patterns; an empty include list admits
// every type not excluded.
type eventFilter struct {
	include []string
	exclude []string
}

// filterRules is the shape of a --filter-file. The file is JSONC, so
// comments and trailing commas are fine.
type filterRules struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

func loadFilterFile(path string) (filterRules, error) {
	var rules filterRules
	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading filter file: %w", err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &rules); err != nil {
		return rules, fmt.Errorf("parsing filter file %s: %w", path, err)
	}
	return rules, nil
}

// buildFilter merges the filter file (if any) with the --types flag.
// Types given on the command line replace the file's include list;
// the file's exclude list still applies.
func buildFilter(types []string, filterFile string) (*eventFilter, error) {
	filter := &eventFilter{}
	if filterFile != "" {
		rules, err := loadFilterFile(filterFile)
		if err != nil {
			return nil, err
		}
		filter.include = rules.Include
		filter.exclude = rules.Exclude
	}
	if len(types) > 0 {
		filter.include = types
	}
	return filter, nil
}

// allow reports whether events of the given type should be printed.
func (f *eventFilter) allow(eventType string) bool {
	for _, pattern := range f.exclude {
		if matchGlob(pattern, eventType) {
			return false
		}
	}
	if len(f.include) == 0 {
		return true
	}
	for _, pattern := range f.include {
		if matchGlob(pattern, eventType) {
			return true
		}
	}
	return false
}

// matchGlob performs simple glob matching.
// Supports * as wildcard matching any characters.
func matchGlob(pattern, str string) bool {
	parts := strings.Split(pattern, "*")

	if len(parts) == 1 {
		// No wildcards, exact match
		return pattern == str
	}

	// Check prefix
	if !strings.HasPrefix(str, parts[0]) {
		return false
	}
	str = str[len(parts[0]):]

	// Check middle parts and suffix
	for i := 1; i < len(parts)-1; i++ {
		idx := strings.Index(str, parts[i])
		if idx == -1 {
			return false
		}
		str = str[idx+len(parts[i]):]
	}

	// Check suffix
	return strings.HasSuffix(str, parts[len(parts)-1])
}
