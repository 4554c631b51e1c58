package meld

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/rmera/gomeld/comm"
	"github.com/rmera/gomeld/remd"
	"github.com/rmera/gomeld/state"
	"github.com/rmera/gomeld/system"
	"github.com/rmera/gomeld/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(Te *testing.T, backend vault.Backend) *Config {
	Te.Helper()
	cfg := DefaultConfig()
	cfg.Template = dipeptide
	cfg.StoreBackend = string(backend)
	if backend == vault.SQLite {
		cfg.StoreDir = filepath.Join(Te.TempDir(), "data.sqlite")
	} else {
		cfg.StoreDir = filepath.Join(Te.TempDir(), "Data")
	}
	return cfg
}

func TestSetupSystem(Te *testing.T) {
	for _, backend := range []vault.Backend{vault.Dir, vault.SQLite} {
		Te.Run(string(backend), func(Te *testing.T) {
			cfg := testConfig(Te, backend)
			require.NoError(Te, SetupSystem(cfg))

			D, err := vault.Open(cfg.StoreDir, backend)
			require.NoError(Te, err)
			defer D.Close()

			s, err := D.LoadSystem()
			require.NoError(Te, err)
			assert.Equal(Te, 10, s.NAtoms())
			assert.True(Te, s.Finalized())
			assert.Equal(Te, cfg.BuildOptions(), s.Options())
			require.NotNil(Te, s.TemperatureScaler())
			t, err := s.TemperatureScaler().Temperature(0.5)
			require.NoError(Te, err)
			assert.Equal(Te, 300*system.Kelvin, t)

			o, err := D.LoadRunOptions()
			require.NoError(Te, err)
			assert.Equal(Te, system.RunOptions{Timesteps: 10, MinimizeSteps: 0}, o)

			r, err := D.LoadRemdRunner()
			require.NoError(Te, err)
			assert.Equal(Te, 2, r.NReplicas)
			assert.Equal(Te, 5, r.MaxSteps)
			assert.Equal(Te, 100, r.Ladder.NTrials)
			assert.Equal(Te, remd.AdaptationPolicy{ScaleFactor: 2.0, UpdatePeriod: 1, MinUpdates: 1}, r.Adaptor.Policy)

			c, err := D.LoadCommunicator()
			require.NoError(Te, err)
			assert.Equal(Te, 10, c.NAtoms)
			assert.Equal(Te, 2, c.NReplicas)

			states, err := D.LoadStates(0)
			require.NoError(Te, err)
			require.Len(Te, states, 2)
			assert.Equal(Te, 0.0, states[0].Alpha)
			assert.Equal(Te, 1.0, states[1].Alpha)
			for _, st := range states {
				assert.InDeltaSlice(Te, s.Coordinates().Flat(), st.Positions.Flat(), 1e-5)
				assert.True(Te, st.Velocities.IsZero())
				assert.Equal(Te, []float64{0, 0, 0}, st.BoxVectors)
			}

			snap, err := D.LoadDataStore()
			require.NoError(Te, err)
			assert.True(Te, snap.Complete)
			assert.Equal(Te, 2, snap.NReplicas)
			assert.Equal(Te, 10, snap.NAtoms)
			assert.Equal(Te, 0, snap.LastCheckpoint)
			assert.Equal(Te, 1, snap.BlockSize)
		})
	}
}

func TestSetupOverwrites(Te *testing.T) {
	cfg := testConfig(Te, vault.Dir)
	cfg.ReplicaCount = 4
	cfg.MaxSteps = 50
	require.NoError(Te, SetupSystem(cfg))
	D, err := vault.Open(cfg.StoreDir, vault.Dir)
	require.NoError(Te, err)
	first, err := D.LoadDataStore()
	require.NoError(Te, err)
	require.NoError(Te, D.Close())

	cfg.ReplicaCount = 2
	cfg.MaxSteps = 5
	require.NoError(Te, SetupSystem(cfg))
	D, err = vault.Open(cfg.StoreDir, vault.Dir)
	require.NoError(Te, err)
	defer D.Close()
	second, err := D.LoadDataStore()
	require.NoError(Te, err)
	assert.NotEqual(Te, first.RunID, second.RunID)
	assert.Equal(Te, 2, second.NReplicas)
	r, err := D.LoadRemdRunner()
	require.NoError(Te, err)
	assert.Equal(Te, 5, r.MaxSteps)
	assert.Equal(Te, 2, r.NReplicas)
	states, err := D.LoadStates(0)
	require.NoError(Te, err)
	assert.Len(Te, states, 2)
	assert.Equal(Te, 1.0, states[1].Alpha)
}

func TestSetupOneReplica(Te *testing.T) {
	cfg := testConfig(Te, vault.Dir)
	cfg.ReplicaCount = 1
	err := SetupSystem(cfg)
	assert.ErrorIs(Te, err, ErrReplicaCount)
	_, err = os.Stat(cfg.StoreDir)
	assert.True(Te, os.IsNotExist(err))
}

func TestSetupBadTemplate(Te *testing.T) {
	cfg := testConfig(Te, vault.Dir)
	cfg.Template = "testdata/broken.pdb"
	assert.Error(Te, SetupSystem(cfg))
	_, err := os.Stat(cfg.StoreDir)
	assert.True(Te, os.IsNotExist(err))
}

//recordingStore keeps the names of the calls made to it, and fails the call
//named in failOn.
type recordingStore struct {
	calls  []string
	failOn string
	states []*state.SystemState
}

var errInjected = errors.New("injected failure")

func (R *recordingStore) record(call string) error {
	R.calls = append(R.calls, call)
	if call == R.failOn {
		return errInjected
	}
	return nil
}

func (R *recordingStore) Initialize(mode vault.Mode) error {
	return R.record("Initialize:" + string(mode))
}
func (R *recordingStore) SaveSystem(s *system.System) error { return R.record("SaveSystem") }
func (R *recordingStore) SaveRunOptions(o system.RunOptions) error {
	return R.record("SaveRunOptions")
}
func (R *recordingStore) SaveRemdRunner(r *remd.LeaderRunner) error {
	return R.record("SaveRemdRunner")
}
func (R *recordingStore) SaveCommunicator(c *comm.MPICommunicator) error {
	return R.record("SaveCommunicator")
}
func (R *recordingStore) SaveStates(states []*state.SystemState, checkpoint int) error {
	R.states = states
	return R.record(fmt.Sprintf("SaveStates:%d", checkpoint))
}
func (R *recordingStore) SaveDataStore() (*vault.Snapshot, error) {
	if err := R.record("SaveDataStore"); err != nil {
		return nil, err
	}
	return &vault.Snapshot{RunID: "recorded", Complete: true}, nil
}
func (R *recordingStore) Close() error { return R.record("Close") }

func recordingExperiment(Te *testing.T, rs *recordingStore) *Experiment {
	cfg := testConfig(Te, vault.Dir)
	E := NewExperiment(cfg, nil)
	E.NewStore = func(path string, template *state.SystemState, n int, w vault.PDBWriter, blockSize int, kind vault.Backend) (Store, error) {
		assert.Equal(Te, cfg.StoreDir, path)
		assert.Equal(Te, 0.0, template.Alpha)
		assert.Equal(Te, 10, template.NAtoms())
		assert.Equal(Te, 2, n)
		assert.NotNil(Te, w)
		assert.Equal(Te, 1, blockSize)
		assert.Equal(Te, vault.Dir, kind)
		return rs, nil
	}
	return E
}

func TestSetupOrder(Te *testing.T) {
	rs := new(recordingStore)
	require.NoError(Te, recordingExperiment(Te, rs).Setup())
	assert.Equal(Te, []string{
		"Initialize:w",
		"SaveSystem",
		"SaveRunOptions",
		"SaveRemdRunner",
		"SaveCommunicator",
		"SaveStates:0",
		"SaveDataStore",
		"Close",
	}, rs.calls)
	require.Len(Te, rs.states, 2)
	assert.Equal(Te, 0.0, rs.states[0].Alpha)
	assert.Equal(Te, 1.0, rs.states[1].Alpha)
}

func TestSetupStopsOnFailure(Te *testing.T) {
	for _, call := range []string{"Initialize:w", "SaveSystem", "SaveRunOptions", "SaveRemdRunner", "SaveCommunicator", "SaveStates:0", "SaveDataStore", "Close"} {
		rs := &recordingStore{failOn: call}
		err := recordingExperiment(Te, rs).Setup()
		assert.ErrorIs(Te, err, errInjected, call)
		require.NotEmpty(Te, rs.calls)
		if call == "Initialize:w" {
			assert.Equal(Te, []string{call}, rs.calls)
			continue
		}
		//nothing after the failed save, but the store is closed
		n := len(rs.calls)
		assert.Equal(Te, "Close", rs.calls[n-1], call)
		if call != "Close" {
			assert.Equal(Te, call, rs.calls[n-2], call)
		}
	}
}

func TestSetupLadderPlot(Te *testing.T) {
	cfg := testConfig(Te, vault.Dir)
	cfg.ReplicaCount = 4
	cfg.Scaler = system.GeometricScaler
	cfg.LadderPlot = filepath.Join(Te.TempDir(), "ladder.png")
	require.NoError(Te, SetupSystem(cfg))
	fi, err := os.Stat(cfg.LadderPlot)
	require.NoError(Te, err)
	assert.Greater(Te, fi.Size(), int64(0))

	//a plot that can't be written doesn't fail the setup
	cfg.LadderPlot = filepath.Join(Te.TempDir(), "missing", "dir", "ladder.png")
	assert.NoError(Te, SetupSystem(cfg))
}
