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

	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	r, err := New("numpy", "1.2.0", "py39_0")
	assert.NoError(t, err)
	assert.Equal(t, "numpy-1.2.0-py39_0", r.String())

	r, err = New("numpy", "1.2.0", "")
	assert.NoError(t, err)
	assert.Equal(t, "numpy-1.2.0", r.String())

	_, err = New("numpy", "not-a-version", "")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "numpy")
}

func TestVersionCompare(t *testing.T) {
	assert.Equal(t, 0, MustVersion("1.2.0").Compare(MustVersion("1.2.0")))
	assert.Equal(t, -1, MustVersion("1.2.0").Compare(MustVersion("1.10.0")))
	assert.Equal(t, 1, MustVersion("2.0.0").Compare(MustVersion("1.10.0")))

	assert.Panics(t, func() {
		MustVersion("1.0.0").Compare(foreignVersion{})
	})
}

type foreignVersion struct{}

func (foreignVersion) Compare(pool.Version) int { return 0 }
func (foreignVersion) String() string           { return "" }

func TestHasTrackFeatures(t *testing.T) {
	r := NewMock("mkl", "2021.0.0")
	assert.False(t, r.HasTrackFeatures())
	r.TrackFeatures = []string{"mkl"}
	assert.True(t, r.HasTrackFeatures())
}
