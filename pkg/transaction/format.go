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

package transaction

import (
	"encoding/json"
	"strings"

	units "github.com/docker/go-units"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v2"

	"github.com/packsolve/packsolve/pkg/eyecandy"
	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/packsolve/packsolve/pkg/record"
)

// OutputMode dictates the rendering of a transaction.
type OutputMode int

const (
	JSON OutputMode = iota
	YAML
	Table
)

// recordDoc is the serializable shape of one record.
type recordDoc struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Build   string `json:"build,omitempty" yaml:"build,omitempty"`
	Channel string `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// resultDoc is the serializable shape of a whole transaction.
type resultDoc struct {
	ToInstall   []recordDoc `json:"toinstall" yaml:"toinstall"`
	ToRemove    []recordDoc `json:"toremove" yaml:"toremove"`
	ToReinstall []recordDoc `json:"toreinstall" yaml:"toreinstall"`
	Unchanged   []recordDoc `json:"unchanged" yaml:"unchanged"`
}

func newRecordDoc(rec pool.PackageRecord) recordDoc {
	if r, ok := rec.(*record.Record); ok {
		return recordDoc{Name: r.Name, Version: r.Version, Build: r.Build, Channel: r.Channel}
	}
	return recordDoc{Name: rec.String()}
}

func (t *Transaction) doc() *resultDoc {
	doc := &resultDoc{
		ToInstall:   []recordDoc{},
		ToRemove:    []recordDoc{},
		ToReinstall: []recordDoc{},
		Unchanged:   []recordDoc{},
	}
	for _, op := range t.Operations {
		rd := newRecordDoc(op.Record)
		switch op.Kind {
		case Install:
			doc.ToInstall = append(doc.ToInstall, rd)
		case Remove:
			doc.ToRemove = append(doc.ToRemove, rd)
		case Reinstall:
			doc.ToReinstall = append(doc.ToReinstall, rd)
		}
	}
	for _, rec := range t.Unchanged {
		doc.Unchanged = append(doc.Unchanged, newRecordDoc(rec))
	}
	return doc
}

// FormatOutput renders the transaction in the requested mode. Table mode is
// meant for terminals and honors the emoji setting; JSON and YAML are meant
// for piping and never carry emojis.
func (t *Transaction) FormatOutput(mode OutputMode, noEmojis bool) string {
	var sb strings.Builder
	switch mode {
	case Table:
		if t.IsEmpty() {
			sb.WriteString(eyecandy.ESPrint(noEmojis, ":sparkles: nothing to do, everything is in place\n"))
			break
		}
		sb.WriteString(eyecandy.ESPrintf(noEmojis, ":package: %d operation(s) to perform:\n", len(t.Operations)))
		table := uitable.New()
		table.AddRow("OPERATION", "NAME", "VERSION", "BUILD", "CHANNEL", "SIZE")
		for _, op := range t.Operations {
			name, version, build, channel, size := op.Kind.String(), "", "", "", ""
			if r, ok := op.Record.(*record.Record); ok {
				table.AddRow(name, r.Name, r.Version, r.Build, r.Channel, humanSize(r.Size))
				continue
			}
			table.AddRow(name, op.Record.String(), version, build, channel, size)
		}
		sb.WriteString(table.String())
		sb.WriteString("\n")
	case YAML:
		o, _ := yaml.Marshal(t.doc())
		sb.WriteString(string(o))
	case JSON:
		o, _ := json.Marshal(t.doc())
		sb.WriteString(string(o))
	}
	return sb.String()
}

func humanSize(size int64) string {
	if size <= 0 {
		return ""
	}
	return units.HumanSize(float64(size))
}
