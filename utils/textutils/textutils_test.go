// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package textutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLowerASCIIFolding(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" Driving ", "driving"},
		{"TRANSIT", "transit"},
		{"Conducción", "conduccion"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LowerASCIIFolding(tt.in))
	}
}

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1234, "-1,234"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatInt(tt.in))
	}
}
