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

// Package test holds golden-file helpers shared by the package tests. Run
// the tests with -update to rewrite the golden files from current output.
package test

import (
	"bytes"
	"flag"
	"io/ioutil"
	"path/filepath"

	"github.com/pkg/errors"
)

var update = flag.Bool("update", false, "update golden files")

// TestingT is the subset of *testing.T the helpers need.
type TestingT interface {
	Fatalf(format string, args ...interface{})
	Helper()
}

// AssertGoldenString asserts that actual matches the contents of the golden
// file at testdata/<filename>.
func AssertGoldenString(t TestingT, actual, filename string) {
	t.Helper()

	if err := compare([]byte(actual), path(filename)); err != nil {
		t.Fatalf("%v", err)
	}
}

func path(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join("testdata", filename)
}

func compare(actual []byte, filename string) error {
	actual = normalize(actual)
	if err := updateGolden(actual, filename); err != nil {
		return err
	}

	expected, err := ioutil.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "unable to read golden file %s", filename)
	}

	expected = normalize(expected)
	if !bytes.Equal(expected, actual) {
		return errors.Errorf("does not match golden file %s\n\nWANT:\n'%s'\n\nGOT:\n'%s'", filename, expected, actual)
	}
	return nil
}

func updateGolden(actual []byte, filename string) error {
	if !*update {
		return nil
	}
	if err := ioutil.WriteFile(filename, actual, 0644); err != nil {
		return errors.Wrapf(err, "unable to update golden file %s", filename)
	}
	return nil
}

func normalize(in []byte) []byte {
	return bytes.Replace(in, []byte("\r\n"), []byte("\n"), -1)
}
