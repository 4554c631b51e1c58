package vault

import (
	"path/filepath"
	"testing"

	"github.com/rmera/gomeld/comm"
	"github.com/rmera/gomeld/remd"
	"github.com/rmera/gomeld/state"
	"github.com/rmera/gomeld/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(Te *testing.T) (*system.System, []*state.SystemState) {
	Te.Helper()
	sub, err := system.SubSystemFromPDBFile("../testdata/dipeptide.pdb")
	require.NoError(Te, err)
	b, err := system.NewBuilder(system.DefaultBuildOptions())
	require.NoError(Te, err)
	s, err := b.Build([]*system.SubSystem{sub})
	require.NoError(Te, err)
	s, err = s.Finalize()
	require.NoError(Te, err)
	states := make([]*state.SystemState, 2)
	for i := range states {
		states[i], err = s.TemplateState()
		require.NoError(Te, err)
		require.NoError(Te, states[i].SetAlpha(float64(i)))
		for j := 0; j < states[i].NAtoms(); j++ {
			states[i].Velocities.Set(j, 0, 0.123456*float64(j+1))
			states[i].Velocities.Set(j, 2, -0.5)
		}
		states[i].Energy = -10.5 * float64(i)
	}
	return s, states
}

func runnerAndComm(Te *testing.T, nAtoms, nReplicas int) (*remd.LeaderRunner, *comm.MPICommunicator) {
	Te.Helper()
	l, err := remd.NewNearestNeighborLadder(100)
	require.NoError(Te, err)
	p, err := remd.NewAdaptationPolicy(2.0, 1, 1)
	require.NoError(Te, err)
	a, err := remd.NewEqualAcceptanceAdaptor(nReplicas, p)
	require.NoError(Te, err)
	r, err := remd.NewLeaderRunner(nReplicas, 5, l, a)
	require.NoError(Te, err)
	c, err := comm.NewMPICommunicator(nAtoms, nReplicas)
	require.NoError(Te, err)
	return r, c
}

func storePath(Te *testing.T, kind Backend) string {
	if kind == SQLite {
		return filepath.Join(Te.TempDir(), "data.sqlite")
	}
	return filepath.Join(Te.TempDir(), "Data")
}

func saveAll(Te *testing.T, D *DataStore, s *system.System, states []*state.SystemState, checkpoints ...int) *Snapshot {
	Te.Helper()
	o, err := system.NewRunOptions(10, 0)
	require.NoError(Te, err)
	r, c := runnerAndComm(Te, s.NAtoms(), len(states))
	require.NoError(Te, D.SaveSystem(s))
	require.NoError(Te, D.SaveRunOptions(o))
	require.NoError(Te, D.SaveRemdRunner(r))
	require.NoError(Te, D.SaveCommunicator(c))
	for _, cp := range checkpoints {
		require.NoError(Te, D.SaveStates(states, cp))
	}
	snap, err := D.SaveDataStore()
	require.NoError(Te, err)
	return snap
}

func TestSaveLoad(Te *testing.T) {
	for _, kind := range []Backend{Dir, SQLite} {
		Te.Run(string(kind), func(Te *testing.T) {
			s, states := fixture(Te)
			path := storePath(Te, kind)
			D, err := New(path, states[0], 2, s.PDBWriter(), 1, WithBackend(kind))
			require.NoError(Te, err)
			require.NoError(Te, D.Initialize(Write))
			snap := saveAll(Te, D, s, states, 0)
			assert.True(Te, snap.Complete)
			assert.Equal(Te, 0, snap.LastCheckpoint)
			assert.Equal(Te, 10, snap.NAtoms)
			assert.Equal(Te, kind, snap.Backend)
			assert.NotEmpty(Te, snap.RunID)

			keys, err := D.Keys()
			require.NoError(Te, err)
			assert.ElementsMatch(Te, []string{
				SystemKey, SystemPDBKey, RunOptionsKey, RemdRunnerKey, CommunicatorKey, DataStoreKey,
				"Blocks/block_000000/positions_000000.stf",
				"Blocks/block_000000/velocities_000000.stf",
				"Blocks/block_000000/states_000000.json",
			}, keys)

			sys, err := D.LoadSystem()
			require.NoError(Te, err)
			assert.Equal(Te, s.NAtoms(), sys.NAtoms())
			assert.Equal(Te, s.Options(), sys.Options())
			assert.True(Te, sys.Finalized())
			assert.Equal(Te, s.Coordinates().Flat(), sys.Coordinates().Flat())

			o, err := D.LoadRunOptions()
			require.NoError(Te, err)
			assert.Equal(Te, 10, o.Timesteps)

			r, err := D.LoadRemdRunner()
			require.NoError(Te, err)
			assert.Equal(Te, 2, r.NReplicas)
			assert.Equal(Te, 100, r.Ladder.NTrials)
			assert.Equal(Te, 2.0, r.Adaptor.Policy.ScaleFactor)

			c, err := D.LoadCommunicator()
			require.NoError(Te, err)
			assert.Equal(Te, 10, c.NAtoms)

			back, err := D.LoadStates(0)
			require.NoError(Te, err)
			require.Len(Te, back, 2)
			for i, st := range back {
				assert.Equal(Te, states[i].Alpha, st.Alpha)
				assert.Equal(Te, states[i].Energy, st.Energy)
				assert.Equal(Te, states[i].BoxVectors, st.BoxVectors)
				assert.InDeltaSlice(Te, states[i].Positions.Flat(), st.Positions.Flat(), 1e-5)
				assert.InDeltaSlice(Te, states[i].Velocities.Flat(), st.Velocities.Flat(), 1e-5)
			}
			require.NoError(Te, D.Close())

			R, err := Open(path, kind)
			require.NoError(Te, err)
			defer R.Close()
			assert.Equal(Te, Read, R.Mode())
			assert.Equal(Te, snap.RunID, R.RunID())
			assert.ErrorIs(Te, R.SaveSystem(s), ErrReadOnly)
			_, err = R.LoadStates(0)
			assert.NoError(Te, err)
		})
	}
}

func TestOrdering(Te *testing.T) {
	s, states := fixture(Te)
	r, c := runnerAndComm(Te, 10, 2)
	D, err := New(storePath(Te, Dir), states[0], 2, nil, 1)
	require.NoError(Te, err)
	assert.ErrorIs(Te, D.SaveSystem(s), ErrNotInitialized)
	_, err = D.SaveDataStore()
	assert.ErrorIs(Te, err, ErrNotInitialized)

	require.NoError(Te, D.Initialize(Write))
	defer D.Close()
	assert.ErrorIs(Te, D.SaveRemdRunner(r), ErrOutOfOrder)
	assert.ErrorIs(Te, D.SaveCommunicator(c), ErrOutOfOrder)
	assert.ErrorIs(Te, D.SaveStates(states, 0), ErrOutOfOrder)
	require.NoError(Te, D.SaveSystem(s))
	assert.ErrorIs(Te, D.SaveRemdRunner(r), ErrOutOfOrder)

	snap, err := D.SaveDataStore()
	require.NoError(Te, err)
	assert.False(Te, snap.Complete)
	assert.Equal(Te, -1, snap.LastCheckpoint)
	assert.Equal(Te, []string{"system"}, snap.Saved)
}

func TestMismatch(Te *testing.T) {
	s, states := fixture(Te)
	D, err := New(storePath(Te, Dir), states[0], 2, nil, 1)
	require.NoError(Te, err)
	require.NoError(Te, D.Initialize(Write))
	defer D.Close()
	o, _ := system.NewRunOptions(10, 0)
	require.NoError(Te, D.SaveSystem(s))
	require.NoError(Te, D.SaveRunOptions(o))

	assert.ErrorIs(Te, D.SaveStates(states[:1], 0), ErrMismatch)
	assert.ErrorIs(Te, D.SaveStates(states, -1), ErrParameter)
	r3, c3 := runnerAndComm(Te, 10, 3)
	assert.ErrorIs(Te, D.SaveRemdRunner(r3), ErrMismatch)
	assert.ErrorIs(Te, D.SaveCommunicator(c3), ErrMismatch)
	_, c := runnerAndComm(Te, 9, 2)
	assert.ErrorIs(Te, D.SaveCommunicator(c), ErrMismatch)

	_, err = New(storePath(Te, Dir), states[0], 1, nil, 1)
	assert.ErrorIs(Te, err, ErrParameter)
	_, err = New(storePath(Te, Dir), states[0], 2, nil, 0)
	assert.ErrorIs(Te, err, ErrParameter)
	_, err = New(storePath(Te, Dir), states[0], 2, nil, 1, WithBackend("tape"))
	assert.ErrorIs(Te, err, ErrParameter)
}

func TestOverwrite(Te *testing.T) {
	for _, kind := range []Backend{Dir, SQLite} {
		Te.Run(string(kind), func(Te *testing.T) {
			s, states := fixture(Te)
			path := storePath(Te, kind)
			D, err := New(path, states[0], 2, nil, 2, WithBackend(kind))
			require.NoError(Te, err)
			require.NoError(Te, D.Initialize(Write))
			first := saveAll(Te, D, s, states, 0, 3)
			assert.Equal(Te, []int{0, 3}, first.Checkpoints)
			require.NoError(Te, D.Close())

			require.NoError(Te, D.Initialize(Write))
			defer D.Close()
			second := saveAll(Te, D, s, states, 0)
			assert.NotEqual(Te, first.RunID, second.RunID)
			assert.Equal(Te, []int{0}, second.Checkpoints)
			keys, err := D.Keys()
			require.NoError(Te, err)
			assert.NotContains(Te, keys, "Blocks/block_000001/states_000003.json")
			assert.Contains(Te, keys, "Blocks/block_000000/states_000000.json")
			_, err = D.LoadStates(3)
			assert.ErrorIs(Te, err, ErrNotFound)
		})
	}
}

func TestAppend(Te *testing.T) {
	s, states := fixture(Te)
	path := storePath(Te, SQLite)
	D, err := New(path, states[0], 2, nil, 1, WithBackend(SQLite))
	require.NoError(Te, err)
	require.NoError(Te, D.Initialize(Write))
	first := saveAll(Te, D, s, states, 0)
	require.NoError(Te, D.Close())

	A, err := New(path, states[0], 2, nil, 1, WithBackend(SQLite))
	require.NoError(Te, err)
	require.NoError(Te, A.Initialize(Append))
	defer A.Close()
	assert.Equal(Te, first.RunID, A.RunID())
	require.NoError(Te, A.SaveStates(states, 1))
	snap, err := A.SaveDataStore()
	require.NoError(Te, err)
	assert.Equal(Te, []int{0, 1}, snap.Checkpoints)
	assert.Equal(Te, 1, snap.LastCheckpoint)
	assert.True(Te, snap.Complete)
}

func TestMissingStore(Te *testing.T) {
	_, states := fixture(Te)
	for _, kind := range []Backend{Dir, SQLite} {
		D, err := New(storePath(Te, kind), states[0], 2, nil, 1, WithBackend(kind))
		require.NoError(Te, err)
		assert.ErrorIs(Te, D.Initialize(Read), ErrNotFound)
		assert.ErrorIs(Te, D.Initialize(Append), ErrNotFound)
		assert.ErrorIs(Te, D.Initialize("x"), ErrParameter)
		_, err = Open(storePath(Te, kind), kind)
		assert.ErrorIs(Te, err, ErrNotFound)
	}
}

func TestKeys(Te *testing.T) {
	assert.Equal(Te, "Blocks/block_000002/positions_000005.stf", PositionsKey(5, 2))
	assert.Equal(Te, "Blocks/block_000000/velocities_000000.stf", VelocitiesKey(0, 1))
	assert.Equal(Te, "Blocks/block_000003/states_000003.json", StatesKey(3, 1))
}
