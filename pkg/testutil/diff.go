// Copyright (C) 2022  Plexgen Authors
//
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pmezard/go-difflib/difflib"
)

var spewConfig = spew.ConfigState{
	Indent:                  "  ",
	DisableMethods:          true,
	DisableCapacities:       true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// Dump renders a value for comparison in test output: deterministic,
// deep, without pointer addresses.
func Dump(val interface{}) string {
	return spewConfig.Sdump(val)
}

// AssertEqualDump compares two values by their dumps, showing a
// unified diff on mismatch.  This gives far more readable failures
// than a one-line inequality for deep structures.
func AssertEqualDump(t *testing.T, exp, act interface{}) bool {
	t.Helper()

	expStr := Dump(exp)
	actStr := Dump(act)
	if expStr == actStr {
		return true
	}

	diff, _ := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expStr),
		B:        difflib.SplitLines(actStr),
		FromFile: "Expected",
		FromDate: "",
		ToFile:   "Actual",
		ToDate:   "",
		Context:  1,
	})
	t.Errorf("Not equal:\n%s", diff)
	return false
}
