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

package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestEnvSettings(t *testing.T) {
	tests := []struct {
		name string

		// input
		args    string
		envvars map[string]string

		// expected values
		debug    bool
		noColors bool
		noEmojis bool
	}{
		{
			name:     "defaults",
			debug:    false,
			noColors: false,
			noEmojis: false,
		},
		{
			name:     "with flags set",
			args:     "--debug --no-colors --no-emojis",
			debug:    true,
			noColors: true,
			noEmojis: true,
		},
		{
			name:     "with envvars set",
			envvars:  map[string]string{"PACKSOLVE_DEBUG": "true", "PACKSOLVE_NOCOLORS": "true", "PACKSOLVE_NOEMOJIS": "true"},
			debug:    true,
			noColors: true,
			noEmojis: true,
		},
		{
			name:     "flags win over envvars",
			args:     "--debug --no-colors",
			envvars:  map[string]string{"PACKSOLVE_DEBUG": "false", "PACKSOLVE_NOCOLORS": "false"},
			debug:    true,
			noColors: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer resetEnv()()

			for k, v := range tt.envvars {
				os.Setenv(k, v)
			}

			flags := pflag.NewFlagSet("testing", pflag.ContinueOnError)

			settings := New()
			settings.AddFlags(flags)
			flags.Parse(strings.Split(tt.args, " "))

			if settings.Debug != tt.debug {
				t.Errorf("expected debug %t, got %t", tt.debug, settings.Debug)
			}
			if settings.NoColors != tt.noColors {
				t.Errorf("expected nocolors %t, got %t", tt.noColors, settings.NoColors)
			}
			if settings.NoEmojis != tt.noEmojis {
				t.Errorf("expected noemojis %t, got %t", tt.noEmojis, settings.NoEmojis)
			}
		})
	}
}

func resetEnv() func() {
	origEnv := os.Environ()

	// ensure any local envvars do not hose us
	for e := range New().EnvVars() {
		os.Unsetenv(e)
	}

	return func() {
		for _, pair := range origEnv {
			kv := strings.SplitN(pair, "=", 2)
			os.Setenv(kv[0], kv[1])
		}
	}
}
