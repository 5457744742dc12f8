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

package main

import (
	"io/ioutil"

	"github.com/Masterminds/log-go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/packsolve/packsolve/pkg/record"
	"github.com/packsolve/packsolve/pkg/repo"
	"github.com/packsolve/packsolve/pkg/solver"
)

// worldRecord is one record of a world file, a flat YAML snapshot of the
// package universe plus the current install state.
type worldRecord struct {
	Name          string   `yaml:"name"`
	Version       string   `yaml:"version"`
	Build         string   `yaml:"build,omitempty"`
	BuildNumber   int      `yaml:"buildnumber,omitempty"`
	Timestamp     int64    `yaml:"timestamp,omitempty"`
	TrackFeatures []string `yaml:"trackfeatures,omitempty"`
	Depends       []string `yaml:"depends,omitempty"`
	Constrains    []string `yaml:"constrains,omitempty"`
	Channel       string   `yaml:"channel,omitempty"`
	Size          int64    `yaml:"size,omitempty"`
	Virtual       bool     `yaml:"virtual,omitempty"`

	Installed bool `yaml:"installed,omitempty"`
	Locked    bool `yaml:"locked,omitempty"`
	Reinstall bool `yaml:"reinstall,omitempty"`
}

type worldFile struct {
	Records []worldRecord `yaml:"records"`
}

// loadWorld reads a world file into a fresh pool, provider and job set.
func loadWorld(path string, logger log.Logger) (*pool.Pool, *repo.Provider, *solver.Jobs, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "reading world file %q", path)
	}
	var world worldFile
	if err := yaml.UnmarshalStrict(data, &world); err != nil {
		return nil, nil, nil, errors.Wrapf(err, "parsing world file %q", path)
	}

	p := pool.New()
	provider := repo.NewProvider(p, logger)
	jobs := solver.NewJobs()

	for _, wr := range world.Records {
		rec, err := record.New(wr.Name, wr.Version, wr.Build)
		if err != nil {
			return nil, nil, nil, errors.Wrapf(err, "world file %q", path)
		}
		rec.BuildNumber = wr.BuildNumber
		rec.Timestamp = wr.Timestamp
		rec.TrackFeatures = wr.TrackFeatures
		rec.Depends = wr.Depends
		rec.Constrains = wr.Constrains
		rec.Channel = wr.Channel
		rec.Size = wr.Size

		var id pool.SolvableID
		if wr.Virtual {
			id = provider.AddVirtual(rec)
		} else {
			id, err = provider.AddRecord(rec)
			if err != nil {
				return nil, nil, nil, errors.Wrapf(err, "world file %q", path)
			}
		}

		switch {
		case wr.Reinstall:
			jobs.Reinstall(id)
		case wr.Installed:
			jobs.Installed(id)
		}
		if wr.Locked {
			jobs.Lock(id)
		}
	}
	return p, provider, jobs, nil
}
