/*
Copyright SUSE LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMatchSpec(t *testing.T) {
	for _, tcase := range []struct {
		name  string
		spec  string
		want  MatchSpec
		isErr bool
	}{
		{
			name: "name only",
			spec: "numpy",
			want: MatchSpec{Name: "numpy"},
		},
		{
			name: "name with range",
			spec: "numpy >=1.2.0,<2.0.0",
			want: MatchSpec{Name: "numpy", Range: ">=1.2.0,<2.0.0"},
		},
		{
			name: "no space before operator",
			spec: "numpy>=1.2.0",
			want: MatchSpec{Name: "numpy", Range: ">=1.2.0"},
		},
		{
			name: "exact pin",
			spec: "numpy =1.2.0",
			want: MatchSpec{Name: "numpy", Range: "=1.2.0"},
		},
		{
			name: "range with spaced separator",
			spec: "numpy >=1.2.0, <2.0.0",
			want: MatchSpec{Name: "numpy", Range: ">=1.2.0,<2.0.0"},
		},
		{
			name: "range and build string",
			spec: "numpy =1.2.0 py39_0",
			want: MatchSpec{Name: "numpy", Range: "=1.2.0", Build: "py39_0"},
		},
		{
			name:  "empty",
			spec:  "   ",
			isErr: true,
		},
		{
			name:  "missing name",
			spec:  ">=1.2.0",
			isErr: true,
		},
		{
			name:  "too many fields",
			spec:  "numpy =1.2.0 py39_0 extra",
			isErr: true,
		},
		{
			name:  "malformed range",
			spec:  "numpy >=not.a.version",
			isErr: true,
		},
	} {
		t.Run(tcase.name, func(t *testing.T) {
			ms, err := ParseMatchSpec(tcase.spec)
			if tcase.isErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tcase.want.Name, ms.Name)
			assert.Equal(t, tcase.want.Range, ms.Range)
			assert.Equal(t, tcase.want.Build, ms.Build)
		})
	}
}

func TestMatchSpecMatches(t *testing.T) {
	ms := MustParseMatchSpec("numpy >=1.2.0,<2.0.0")

	assert.True(t, ms.Matches(NewMock("numpy", "1.2.0")))
	assert.True(t, ms.Matches(NewMock("numpy", "1.21.3")))
	assert.False(t, ms.Matches(NewMock("numpy", "2.0.0")))
	assert.False(t, ms.Matches(NewMock("numpy", "1.1.0")))
	assert.False(t, ms.Matches(NewMock("scipy", "1.2.0")))
}

func TestMatchSpecMatchesBuild(t *testing.T) {
	ms := MustParseMatchSpec("numpy =1.2.0 py39_0")

	withBuild, err := New("numpy", "1.2.0", "py39_0")
	assert.NoError(t, err)
	otherBuild, err := New("numpy", "1.2.0", "py38_0")
	assert.NoError(t, err)

	assert.True(t, ms.Matches(withBuild))
	assert.False(t, ms.Matches(otherBuild))
}

func TestMatchSpecMatchesAnyVersion(t *testing.T) {
	ms := MustParseMatchSpec("numpy")

	assert.True(t, ms.Matches(NewMock("numpy", "0.0.1")))
	assert.True(t, ms.Matches(NewMock("numpy", "99.0.0")))
	assert.False(t, ms.Matches(NewMock("scipy", "1.0.0")))
}

func TestMatchSpecString(t *testing.T) {
	assert.Equal(t, "", MustParseMatchSpec("numpy").String())
	assert.Equal(t, ">=1.2.0", MustParseMatchSpec("numpy >=1.2.0").String())
	assert.Equal(t, "=1.2.0 py39_0", MustParseMatchSpec("numpy =1.2.0 py39_0").String())
}
