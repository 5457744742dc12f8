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

package solver_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/packsolve/packsolve/pkg/pool"
	"github.com/packsolve/packsolve/pkg/record"
	"github.com/packsolve/packsolve/pkg/repo"
	"github.com/packsolve/packsolve/pkg/solver"
	"github.com/packsolve/packsolve/pkg/transaction"
)

// world bundles a populated pool and provider with the ids of its records,
// keyed by fingerprint.
type world struct {
	pool     *pool.Pool
	provider *repo.Provider
	ids      map[string]pool.SolvableID
}

func newWorld(t *testing.T, records ...*record.Record) *world {
	t.Helper()
	p := pool.New()
	provider := repo.NewProvider(p, nil)
	w := &world{pool: p, provider: provider, ids: map[string]pool.SolvableID{}}
	for _, rec := range records {
		id, err := provider.AddRecord(rec)
		require.NoError(t, err)
		w.ids[rec.String()] = id
	}
	return w
}

func (w *world) install(t *testing.T, jobs *solver.Jobs, specs ...string) {
	t.Helper()
	for _, spec := range specs {
		set, err := w.provider.InternSpec(spec)
		require.NoError(t, err)
		jobs.Install(set)
	}
}

func (w *world) solve(t *testing.T, jobs *solver.Jobs) (*transaction.Transaction, error) {
	t.Helper()
	return solver.New(w.pool, w.provider).Solve(jobs)
}

// installNames maps the fingerprints of a transaction's Install operations.
func installNames(txn *transaction.Transaction) []string {
	var names []string
	for _, op := range txn.Operations {
		if op.Kind == transaction.Install {
			names = append(names, op.Record.String())
		}
	}
	return names
}

func TestSolveInstallsHighestVersion(t *testing.T) {
	w := newWorld(t,
		record.NewMock("numpy", "1.0.0"),
		record.NewMock("numpy", "2.0.0"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "numpy")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy-2.0.0"}, installNames(txn))
}

func TestSolveHonorsPin(t *testing.T) {
	w := newWorld(t,
		record.NewMock("numpy", "1.0.0"),
		record.NewMock("numpy", "2.0.0"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "numpy =1.0.0")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.Equal(t, []string{"numpy-1.0.0"}, installNames(txn))
}

func TestSolvePullsDependencies(t *testing.T) {
	w := newWorld(t,
		record.NewMock("numpy", "1.21.0", "python >=3.8.0", "blas"),
		record.NewMock("python", "3.9.0"),
		record.NewMock("python", "3.7.0"),
		record.NewMock("blas", "1.0.0"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "numpy")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"numpy-1.21.0", "python-3.9.0", "blas-1.0.0"},
		installNames(txn))
}

func TestSolveDependencyCycle(t *testing.T) {
	w := newWorld(t,
		record.NewMock("a", "1.0.0", "b"),
		record.NewMock("b", "1.0.0", "a"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "a")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a-1.0.0", "b-1.0.0"}, installNames(txn))
}

func TestSolveBacktracksToOlderVersion(t *testing.T) {
	// x-2.0.0 needs a python nobody has; the solver must fall back to
	// x-1.0.0 after learning that x-2.0.0 cannot be part of any solution
	w := newWorld(t,
		record.NewMock("x", "2.0.0", "python =2.7.0"),
		record.NewMock("x", "1.0.0"),
		record.NewMock("python", "3.9.0"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "x")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.Equal(t, []string{"x-1.0.0"}, installNames(txn))
}

func TestSolveConstrains(t *testing.T) {
	w := newWorld(t,
		record.NewMock("cuda", "1.0.0"),
		record.NewMock("driver", "1.0.0"),
		record.NewMock("driver", "2.0.0"),
	)
	rec := record.NewMock("toolkit", "1.0.0", "cuda")
	rec.Constrains = []string{"driver <2.0.0"}
	_, err := w.provider.AddRecord(rec)
	require.NoError(t, err)

	jobs := solver.NewJobs()
	w.install(t, jobs, "toolkit", "driver")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.ElementsMatch(t,
		[]string{"toolkit-1.0.0", "cuda-1.0.0", "driver-1.0.0"},
		installNames(txn))
}

func TestSolveUnknownPackage(t *testing.T) {
	w := newWorld(t, record.NewMock("numpy", "1.0.0"))
	jobs := solver.NewJobs()
	w.install(t, jobs, "nosuchthing")

	_, err := w.solve(t, jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraints are not satisfiable")
	assert.Contains(t, err.Error(), "the request requires nosuchthing, but no such package exists")
}

func TestSolveKnownNameWithoutMatch(t *testing.T) {
	w := newWorld(t,
		record.NewMock("a", "1.0.0", "b >=2.0.0"),
		record.NewMock("b", "1.0.0"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "a")

	_, err := w.solve(t, jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a-1.0.0 requires b >=2.0.0, but no candidate matches")
}

func TestSolveRegisteredEmptyName(t *testing.T) {
	w := newWorld(t, record.NewMock("a", "1.0.0", "b"))
	w.provider.RegisterName("b")

	jobs := solver.NewJobs()
	w.install(t, jobs, "a")

	_, err := w.solve(t, jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidate matches")
	assert.NotContains(t, err.Error(), "no such package exists")
}

func TestSolveConflictingRequirements(t *testing.T) {
	w := newWorld(t,
		record.NewMock("a", "1.0.0", "c =1.0.0"),
		record.NewMock("b", "1.0.0", "c =2.0.0"),
		record.NewMock("c", "1.0.0"),
		record.NewMock("c", "2.0.0"),
	)
	jobs := solver.NewJobs()
	w.install(t, jobs, "a", "b")

	_, err := w.solve(t, jobs)
	require.Error(t, err)
	problem, ok := err.(*solver.Problem)
	require.True(t, ok)
	assert.NotEmpty(t, problem.Reasons())
	assert.Contains(t, err.Error(), "cannot be installed at the same time")
}

func TestSolveLockedCandidateWins(t *testing.T) {
	w := newWorld(t,
		record.NewMock("openssl", "1.0.0"),
		record.NewMock("openssl", "3.0.0"),
	)
	jobs := solver.NewJobs()
	jobs.Lock(w.ids["openssl-1.0.0"])
	w.install(t, jobs, "openssl")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.Equal(t, []string{"openssl-1.0.0"}, installNames(txn))
}

func TestSolveLockExcludesRequirement(t *testing.T) {
	w := newWorld(t,
		record.NewMock("a", "1.0.0", "openssl >=3.0.0"),
		record.NewMock("openssl", "1.0.0"),
		record.NewMock("openssl", "3.0.0"),
	)
	jobs := solver.NewJobs()
	jobs.Lock(w.ids["openssl-1.0.0"])
	w.install(t, jobs, "a")

	_, err := w.solve(t, jobs)
	require.Error(t, err)
	assert.Contains(t, err.Error(),
		"a-1.0.0 requires openssl >=3.0.0, but every matching candidate is excluded by a lock")
}

func TestSolveFavorsInstalled(t *testing.T) {
	w := newWorld(t,
		record.NewMock("numpy", "1.0.0"),
		record.NewMock("numpy", "2.0.0"),
	)
	jobs := solver.NewJobs()
	jobs.Installed(w.ids["numpy-1.0.0"])
	w.install(t, jobs, "numpy")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.True(t, txn.IsEmpty())
	require.Len(t, txn.Unchanged, 1)
	assert.Equal(t, "numpy-1.0.0", txn.Unchanged[0].String())
}

func TestSolveUpgradeRemovesBeforeInstall(t *testing.T) {
	w := newWorld(t,
		record.NewMock("numpy", "1.0.0"),
		record.NewMock("numpy", "2.0.0"),
	)
	jobs := solver.NewJobs()
	jobs.Installed(w.ids["numpy-1.0.0"])
	w.install(t, jobs, "numpy >=2.0.0")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	require.Len(t, txn.Operations, 2)
	assert.Equal(t, transaction.Remove, txn.Operations[0].Kind)
	assert.Equal(t, "numpy-1.0.0", txn.Operations[0].Record.String())
	assert.Equal(t, transaction.Install, txn.Operations[1].Kind)
	assert.Equal(t, "numpy-2.0.0", txn.Operations[1].Record.String())
}

func TestSolveReinstall(t *testing.T) {
	w := newWorld(t, record.NewMock("numpy", "1.0.0"))
	jobs := solver.NewJobs()
	jobs.Reinstall(w.ids["numpy-1.0.0"])
	w.install(t, jobs, "numpy")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	require.Len(t, txn.Operations, 1)
	assert.Equal(t, transaction.Reinstall, txn.Operations[0].Kind)
}

func TestSolveRemovesUnwantedInstalled(t *testing.T) {
	w := newWorld(t,
		record.NewMock("numpy", "1.0.0"),
		record.NewMock("scipy", "1.0.0"),
	)
	jobs := solver.NewJobs()
	jobs.Installed(w.ids["numpy-1.0.0"])
	jobs.Installed(w.ids["scipy-1.0.0"])
	w.install(t, jobs, "numpy")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	require.Len(t, txn.Operations, 1)
	assert.Equal(t, transaction.Remove, txn.Operations[0].Kind)
	assert.Equal(t, "scipy-1.0.0", txn.Operations[0].Record.String())
}

func TestSolveIsDeterministic(t *testing.T) {
	build := func() (*world, *solver.Jobs) {
		w := newWorld(t,
			record.NewMock("numpy", "1.21.0", "python >=3.8.0"),
			record.NewMock("numpy", "1.20.0", "python >=3.7.0"),
			record.NewMock("python", "3.9.0"),
			record.NewMock("python", "3.8.0"),
			record.NewMock("scipy", "1.7.0", "numpy >=1.16.0"),
		)
		jobs := solver.NewJobs()
		w.install(t, jobs, "scipy", "numpy")
		return w, jobs
	}

	w1, j1 := build()
	first, err := w1.solve(t, j1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		w2, j2 := build()
		again, err := w2.solve(t, j2)
		require.NoError(t, err)
		assert.Equal(t,
			first.FormatOutput(transaction.YAML, true),
			again.FormatOutput(transaction.YAML, true))
	}
}

func TestSolveEmptyJobs(t *testing.T) {
	w := newWorld(t, record.NewMock("numpy", "1.0.0"))
	txn, err := w.solve(t, solver.NewJobs())
	require.NoError(t, err)
	assert.True(t, txn.IsEmpty())
}

func TestSolveVirtualPackagesStayOutOfTransactions(t *testing.T) {
	w := newWorld(t, record.NewMock("tensorflow", "2.0.0", "__cuda >=11.0.0"))
	w.provider.AddVirtual(record.NewMock("__cuda", "11.2.0"))

	jobs := solver.NewJobs()
	w.install(t, jobs, "tensorflow")

	txn, err := w.solve(t, jobs)
	require.NoError(t, err)
	assert.Equal(t, []string{"tensorflow-2.0.0"}, installNames(txn))
}
