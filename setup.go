/*
 * setup.go, part of gomeld.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package meld

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/rmera/gomeld/chemplot"
	"github.com/rmera/gomeld/comm"
	"github.com/rmera/gomeld/remd"
	"github.com/rmera/gomeld/state"
	"github.com/rmera/gomeld/system"
	"github.com/rmera/gomeld/vault"
)

//NewVaultStore is the default StoreFactory, it returns a *vault.DataStore.
func NewVaultStore(path string, template *state.SystemState, nReplicas int, w vault.PDBWriter, blockSize int, kind vault.Backend) (Store, error) {
	D, err := vault.New(path, template, nReplicas, w, blockSize, vault.WithBackend(kind))
	if err != nil {
		return nil, err
	}
	return D, nil
}

//Experiment sets up a REMD run from a configuration.
type Experiment struct {
	Config   *Config
	NewStore StoreFactory //defaults to NewVaultStore
	Log      *slog.Logger //defaults to a logger that discards everything
}

//NewExperiment returns an Experiment for cfg that saves to a vault.DataStore.
func NewExperiment(cfg *Config, log *slog.Logger) *Experiment {
	return &Experiment{Config: cfg, NewStore: NewVaultStore, Log: log}
}

//SetupSystem sets up the run described by cfg in a vault.DataStore.
func SetupSystem(cfg *Config) error {
	return NewExperiment(cfg, nil).Setup()
}

//buildSystem reads the template and builds the finalized system, with its temperature scaler.
func (E *Experiment) buildSystem() (*system.System, error) {
	cfg := E.Config
	sub, err := system.SubSystemFromPDBFile(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	E.Log.Debug("template read", "template", cfg.Template, "atoms", sub.Len())
	b, err := system.NewBuilder(cfg.BuildOptions())
	if err != nil {
		return nil, fmt.Errorf("builder: %w", err)
	}
	s, err := b.Build([]*system.SubSystem{sub})
	if err != nil {
		return nil, fmt.Errorf("build system: %w", err)
	}
	if s, err = s.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize system: %w", err)
	}
	ts, err := cfg.TemperatureScaler()
	if err != nil {
		return nil, fmt.Errorf("temperature scaler: %w", err)
	}
	if err := s.SetTemperatureScaler(ts); err != nil {
		return nil, fmt.Errorf("temperature scaler: %w", err)
	}
	E.Log.Info("system built", "atoms", s.NAtoms(), "forcefield", cfg.Forcefield, "solvent", cfg.ImplicitSolvent, "scaler", cfg.Scaler)
	return s, nil
}

//checkReplicas verifies that every replica-indexed object agrees on the replica count.
func checkReplicas(n int, states []*state.SystemState, r *remd.LeaderRunner, c *comm.MPICommunicator) error {
	switch {
	case len(states) != n:
		return fmt.Errorf("%w: %d states for %d replicas", ErrReplicaMismatch, len(states), n)
	case r.NReplicas != n || r.Adaptor.NReplicas != n:
		return fmt.Errorf("%w: runner for %d replicas, adaptor for %d, expected %d", ErrReplicaMismatch, r.NReplicas, r.Adaptor.NReplicas, n)
	case c.NReplicas != n:
		return fmt.Errorf("%w: communicator for %d replicas, expected %d", ErrReplicaMismatch, c.NReplicas, n)
	}
	return nil
}

//Setup builds the system and saves, in order, the system, the run options, the runner,
//the communicator, the states of all replicas at checkpoint 0 and the store snapshot.
//The store is opened in write mode, so a previous run at the same place is replaced.
//The first error aborts the setup, and the store may be left incomplete.
func (E *Experiment) Setup() (err error) {
	if E.Config == nil {
		return fmt.Errorf("Setup: %w: nil configuration", ErrConfig)
	}
	if E.Log == nil {
		E.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if E.NewStore == nil {
		E.NewStore = NewVaultStore
	}
	cfg := E.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("Setup: %w", err)
	}
	n := cfg.ReplicaCount
	E.Log.Info("setting up REMD run", "replicas", n, "template", cfg.Template, "store", cfg.StoreDir, "backend", cfg.StoreBackend)

	s, err := E.buildSystem()
	if err != nil {
		return fmt.Errorf("Setup: %w", err)
	}
	options, err := cfg.RunOptions()
	if err != nil {
		return fmt.Errorf("Setup: run options: %w", err)
	}

	template, err := GenState(s, 0, n)
	if err != nil {
		return fmt.Errorf("Setup: %w", err)
	}
	store, err := E.NewStore(cfg.StoreDir, template, n, s.PDBWriter(), cfg.BlockSize, vault.Backend(cfg.StoreBackend))
	if err != nil {
		return fmt.Errorf("Setup: create store: %w", err)
	}
	if err := store.Initialize(vault.Write); err != nil {
		return fmt.Errorf("Setup: open store: %w", err)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("Setup: close store: %w", cerr)
		}
	}()
	if err := store.SaveSystem(s); err != nil {
		return fmt.Errorf("Setup: save system: %w", err)
	}
	if err := store.SaveRunOptions(options); err != nil {
		return fmt.Errorf("Setup: save run options: %w", err)
	}
	E.Log.Debug("system and run options saved", "timesteps", options.Timesteps, "minimize_steps", options.MinimizeSteps)

	l, err := remd.NewNearestNeighborLadder(cfg.LadderTrials)
	if err != nil {
		return fmt.Errorf("Setup: ladder: %w", err)
	}
	policy, err := cfg.AdaptationPolicy()
	if err != nil {
		return fmt.Errorf("Setup: adaptation policy: %w", err)
	}
	a, err := remd.NewEqualAcceptanceAdaptor(n, policy)
	if err != nil {
		return fmt.Errorf("Setup: adaptor: %w", err)
	}
	runner, err := remd.NewLeaderRunner(n, cfg.MaxSteps, l, a)
	if err != nil {
		return fmt.Errorf("Setup: runner: %w", err)
	}
	if err := store.SaveRemdRunner(runner); err != nil {
		return fmt.Errorf("Setup: save runner: %w", err)
	}

	c, err := comm.NewMPICommunicator(s.NAtoms(), n)
	if err != nil {
		return fmt.Errorf("Setup: communicator: %w", err)
	}
	if err := store.SaveCommunicator(c); err != nil {
		return fmt.Errorf("Setup: save communicator: %w", err)
	}
	E.Log.Debug("runner and communicator saved", "max_steps", runner.MaxSteps, "message_size", c.MessageSize())

	states, err := GenStates(s, n)
	if err != nil {
		return fmt.Errorf("Setup: %w", err)
	}
	if err := checkReplicas(n, states, runner, c); err != nil {
		return fmt.Errorf("Setup: %w", err)
	}
	if err := store.SaveStates(states, 0); err != nil {
		return fmt.Errorf("Setup: save states: %w", err)
	}
	snap, err := store.SaveDataStore()
	if err != nil {
		return fmt.Errorf("Setup: save data store: %w", err)
	}
	E.Log.Info("REMD run ready", "run_id", snap.RunID, "complete", snap.Complete, "store", cfg.StoreDir)

	if cfg.LadderPlot != "" {
		if perr := E.plotLadder(s, states); perr != nil {
			E.Log.Warn("could not plot the ladder", "file", cfg.LadderPlot, "error", perr)
		}
	}
	return nil
}

func (E *Experiment) plotLadder(s *system.System, states []*state.SystemState) error {
	ts := s.TemperatureScaler()
	alphas := make([]float64, len(states))
	temps := make([]float64, len(states))
	for i, st := range states {
		t, err := ts.Temperature(st.Alpha)
		if err != nil {
			return err
		}
		alphas[i] = st.Alpha
		temps[i] = float64(t)
	}
	if err := chemplot.LadderPlot(alphas, temps, "REMD ladder", E.Config.LadderPlot); err != nil {
		return err
	}
	E.Log.Info("ladder plotted", "file", E.Config.LadderPlot)
	return nil
}
