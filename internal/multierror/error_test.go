// Copyright Elasticsearch B.V. and/or licensed to Elasticsearch B.V. under one
// or more contributor license agreements. Licensed under the Elastic License;
// you may not use this file except in compliance with the Elastic License.

package multierror

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnique(t *testing.T) {
	errs := Error{
		fmt.Errorf("version conflict"),
		fmt.Errorf("mapping error"),
		fmt.Errorf("version conflict"),
		fmt.Errorf("mapping error"),
		fmt.Errorf("document too large"),
	}

	unique := errs.Unique()

	require.Len(t, unique, 3)
	require.Len(t, errs, 5)

	require.Equal(t, "version conflict", unique[0].Error())
	require.Equal(t, "mapping error", unique[1].Error())
	require.Equal(t, "document too large", unique[2].Error())
}

func TestErrorFormat(t *testing.T) {
	errs := Error{
		fmt.Errorf("first"),
		fmt.Errorf("second"),
	}
	require.Equal(t, "[0] first\n[1] second", errs.Error())
}

func TestErrorFormatNil(t *testing.T) {
	var errs Error
	require.Empty(t, errs.Error())
}
