// Copyright 2026 The Vox Authors
// SPDX-License-Identifier: Apache-2.0

package wirecodec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4 returns the lz4 frame codec. Lower compression ratio than zstd
// but cheaper to decode, for clients that prioritize CPU over
// bandwidth.
func LZ4() Codec { return lz4Codec{} }

type lz4Codec struct{}

func (lz4Codec) Name() string { return "lz4" }

func (lz4Codec) Compress(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	writer := lz4.NewWriter(&buffer)
	if _, err := writer.Write(data); err != nil {
		return nil, fmt.Errorf("wirecodec: lz4 compress: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("wirecodec: lz4 compress: %w", err)
	}
	return buffer.Bytes(), nil
}

func (lz4Codec) Decompress(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))
	result, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("wirecodec: lz4 decompress: %w", err)
	}
	return result, nil
}
