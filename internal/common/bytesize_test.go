// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseByteSize(t *testing.T) {
	cases := []struct {
		text     string
		expected ByteSize
		valid    bool
	}{
		{"0", 0, true},
		{"1024", 1024 * Byte, true},
		{"1024B", 1024 * Byte, true},
		{"2KB", 2 * KiloByte, true},
		{"5MB", 5 * MegaByte, true},
		{"40GB", 40 * GigaByte, true},
		{"1.5MB", ByteSize(1572864), true},
		{"56.21GB", ByteSize(60355027927), true},
		{"KB", 0, false},
		{"B", 0, false},
		{"1s", 0, false},
		{"", 0, false},
		{"-200MB", 0, false},
		{"-1", 0, false},
		{"10000000000000000000MB", 0, false},
	}

	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			found, err := ParseByteSize(c.text)
			if c.valid {
				require.NoError(t, err)
				assert.Equal(t, c.expected, found)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestByteSizeString(t *testing.T) {
	cases := []struct {
		size     ByteSize
		expected string
	}{
		{ByteSize(0), "0B"},
		{ByteSize(1024), "1KB"},
		{ByteSize(1025), "1025B"},
		{5 * MegaByte, "5MB"},
		{5 * GigaByte, "5GB"},
	}

	for _, c := range cases {
		t.Run(c.expected, func(t *testing.T) {
			assert.Equal(t, c.expected, c.size.String())
		})
	}
}
