// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package common

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Common units for sizes in bytes.
const (
	Byte     = ByteSize(1)
	KiloByte = 1024 * Byte
	MegaByte = 1024 * KiloByte
	GigaByte = 1024 * MegaByte
)

// ByteSize represents an amount of data, as configured for batch thresholds.
type ByteSize uint64

var byteSizePattern = regexp.MustCompile(`^(\d+(\.\d+)?)(B|KB|MB|GB|)$`)

// ParseByteSize parses a size in bytes from its string representation, that
// can be a plain number or a quantity with one of the supported units, as in
// "5MB" or "1.5GB".
func ParseByteSize(text string) (ByteSize, error) {
	match := byteSizePattern.FindStringSubmatch(text)
	if match == nil {
		return 0, fmt.Errorf("invalid format for size in bytes (%s)", text)
	}

	unit := Byte
	switch match[3] {
	case "GB":
		unit = GigaByte
	case "MB":
		unit = MegaByte
	case "KB":
		unit = KiloByte
	}

	// Plain integer quantities must fit in an int64, the limit bulk request
	// sizes are compared against.
	if match[2] == "" {
		q, err := strconv.ParseUint(match[1], 10, 63)
		if err != nil {
			return 0, fmt.Errorf("invalid format for size in bytes (%s): %w", text, err)
		}
		return ByteSize(q) * unit, nil
	}

	q, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid format for size in bytes (%s): %w", text, err)
	}
	return ByteSize(math.Round(q * float64(unit))), nil
}

// String returns the quantity with the biggest unit that represents it
// without fractions.
func (s ByteSize) String() string {
	switch {
	case s >= GigaByte && s%GigaByte == 0:
		return fmt.Sprintf("%dGB", s/GigaByte)
	case s >= MegaByte && s%MegaByte == 0:
		return fmt.Sprintf("%dMB", s/MegaByte)
	case s >= KiloByte && s%KiloByte == 0:
		return fmt.Sprintf("%dKB", s/KiloByte)
	default:
		return fmt.Sprintf("%dB", s)
	}
}
