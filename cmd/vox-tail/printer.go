// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// printer writes one event frame per line to out. With color enabled
// the JSON is syntax highlighted for reading in a terminal; otherwise
// it is compact JSON ready for jq and friends.
type printer struct {
	out   io.Writer
	color bool
}

func (p *printer) print(raw []byte) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		// Not valid JSON; pass it through as received.
		compact.Reset()
		compact.Write(raw)
	}

	line := compact.Bytes()
	if p.color {
		var highlighted strings.Builder
		if err := quick.Highlight(&highlighted, compact.String(), "json", "terminal256", "monokai"); err == nil {
			line = []byte(highlighted.String())
		}
	}

	// One Write per event keeps lines whole.
	line = append(line, '\n')
	_, err := p.out.Write(line)
	return err
}
