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

/*Package cli describes the operating environment of the packsolve CLI:
settings read from envvars, overridable by flags.
*/
package cli

import (
	"os"
	"strconv"

	"github.com/spf13/pflag"
)

// EnvSettings are the packsolve CLI settings.
type EnvSettings struct {
	Debug    bool
	NoColors bool
	NoEmojis bool
}

// New builds the settings from the environment.
func New() *EnvSettings {
	env := &EnvSettings{}
	env.Debug, _ = strconv.ParseBool(os.Getenv("PACKSOLVE_DEBUG"))
	env.NoColors, _ = strconv.ParseBool(os.Getenv("PACKSOLVE_NOCOLORS"))
	env.NoEmojis, _ = strconv.ParseBool(os.Getenv("PACKSOLVE_NOEMOJIS"))
	return env
}

// AddFlags binds the settings to CLI flags; flags win over envvars.
func (s *EnvSettings) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&s.Debug, "debug", s.Debug, "enable verbose output")
	fs.BoolVar(&s.NoColors, "no-colors", s.NoColors, "disable colorized output")
	fs.BoolVar(&s.NoEmojis, "no-emojis", s.NoEmojis, "disable emojis in output")
}

// EnvVars lists the envvars the settings are read from, with their current
// values.
func (s *EnvSettings) EnvVars() map[string]string {
	return map[string]string{
		"PACKSOLVE_DEBUG":    strconv.FormatBool(s.Debug),
		"PACKSOLVE_NOCOLORS": strconv.FormatBool(s.NoColors),
		"PACKSOLVE_NOEMOJIS": strconv.FormatBool(s.NoEmojis),
	}
}
