// Copyright 2026 The Nit Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nitrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportPassedRequiresEveryLinterToPass(t *testing.T) {
	t.Parallel()
	report := Report{Outcomes: []LinterOutcome{
		{Name: "a", Passed: true},
		{Name: "b", Passed: true},
	}}
	assert.True(t, report.Passed())

	report.Outcomes[1].Passed = false
	assert.False(t, report.Passed())
}

func TestReportPassedFalseOnFatalError(t *testing.T) {
	t.Parallel()
	report := Report{Outcomes: []LinterOutcome{
		{Name: "a", Passed: true, Err: assert.AnError},
	}}
	assert.False(t, report.Passed())
}

func TestReportPassedTrueForEmptyLinterList(t *testing.T) {
	t.Parallel()
	report := Report{}
	assert.True(t, report.Passed())
}
