/*
 * vault.go, part of gomeld.
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

//Package vault implements the DataStore, the on-disk record of a REMD run: the
//system, the run options, the runner and communicator descriptions and the states
//of all replicas at each checkpoint. The store can live in a directory tree or in
//a single SQLite file, with the same keys in both cases.
package vault

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rmera/gomeld/comm"
	"github.com/rmera/gomeld/remd"
	"github.com/rmera/gomeld/state"
	"github.com/rmera/gomeld/system"
	"github.com/rmera/gomeld/traj/stf"
	v3 "github.com/rmera/gomeld/v3"
)

//Mode is the way a DataStore is opened.
type Mode string

const (
	Write  Mode = "w" //create the store, or truncate an existing one
	Append Mode = "a" //add to an existing store
	Read   Mode = "r" //only loads are allowed
)

//Backend names the storage used by a DataStore.
type Backend string

const (
	Dir    Backend = "dir"
	SQLite Backend = "sqlite"
)

//DefaultPrecision is the number of decimal places kept for positions (nm) and
//velocities (nm/ps) in the stored trajectories.
const DefaultPrecision = 5

//Keys of the records in the store.
const (
	SystemKey       = "system.json"
	SystemPDBKey    = "system.pdb"
	RunOptionsKey   = "run_options.json"
	RemdRunnerKey   = "remd_runner.json"
	CommunicatorKey = "communicator.json"
	DataStoreKey    = "data_store.json"
	BlocksPrefix    = "Blocks/"
)

//Names of the records, as listed in the Snapshot.
const (
	systemRecord       = "system"
	runOptionsRecord   = "run_options"
	remdRunnerRecord   = "remd_runner"
	communicatorRecord = "communicator"
	statesRecord       = "states"
)

var ownedKeys = []string{SystemKey, SystemPDBKey, RunOptionsKey, RemdRunnerKey, CommunicatorKey, DataStoreKey, BlocksPrefix}

//PDBWriter writes positions (nm) and a box (nm) as a PDB file.
type PDBWriter interface {
	Write(out io.Writer, positions *v3.Matrix, box []float64) error
}

//BlockKey returns the key prefix of the block holding checkpoint.
func BlockKey(checkpoint, blockSize int) string {
	return fmt.Sprintf("%sblock_%06d/", BlocksPrefix, checkpoint/blockSize)
}

//PositionsKey, VelocitiesKey and StatesKey return the keys for the data of a checkpoint.
func PositionsKey(checkpoint, blockSize int) string {
	return fmt.Sprintf("%spositions_%06d.stf", BlockKey(checkpoint, blockSize), checkpoint)
}

func VelocitiesKey(checkpoint, blockSize int) string {
	return fmt.Sprintf("%svelocities_%06d.stf", BlockKey(checkpoint, blockSize), checkpoint)
}

func StatesKey(checkpoint, blockSize int) string {
	return fmt.Sprintf("%sstates_%06d.json", BlockKey(checkpoint, blockSize), checkpoint)
}

//Snapshot is the description of the store itself, saved by SaveDataStore.
type Snapshot struct {
	RunID          string    `json:"run_id"`
	Backend        Backend   `json:"backend"`
	NAtoms         int       `json:"n_atoms"`
	NReplicas      int       `json:"n_replicas"`
	BlockSize      int       `json:"block_size"`
	Precision      int       `json:"precision"`
	LastCheckpoint int       `json:"last_checkpoint"` //-1 if no states have been saved
	Checkpoints    []int     `json:"checkpoints"`
	Saved          []string  `json:"saved"`
	Complete       bool      `json:"complete"` //every record needed to start a run is there
	UpdatedAt      time.Time `json:"updated_at"`
}

//Option configures a DataStore.
type Option func(*DataStore)

//WithBackend selects the backend. The default is Dir.
func WithBackend(b Backend) Option {
	return func(D *DataStore) { D.kind = b }
}

//WithPrecision sets the number of decimal places kept for positions and velocities.
func WithPrecision(prec int) Option {
	return func(D *DataStore) { D.prec = prec }
}

//DataStore persists a REMD run. All its methods can be called concurrently, calls
//are serialized.
type DataStore struct {
	mu          sync.Mutex
	path        string
	kind        Backend
	b           backend
	mode        Mode
	nAtoms      int
	nReplicas   int
	blockSize   int
	prec        int
	pdbWriter   PDBWriter
	runID       string
	saved       map[string]bool
	checkpoints map[int]bool
	lastCheck   int
}

//New returns a DataStore at path for nReplicas replicas of the system described by
//template, writing blocks of blockSize checkpoints. pdbWriter, if not nil, is used to
//save a PDB of the system. The store must be initialized before use.
func New(path string, template *state.SystemState, nReplicas int, pdbWriter PDBWriter, blockSize int, opts ...Option) (*DataStore, error) {
	if template == nil {
		return nil, fmt.Errorf("vault.New: %w: nil template state", ErrParameter)
	}
	D := &DataStore{
		path:      path,
		kind:      Dir,
		nAtoms:    template.NAtoms(),
		nReplicas: nReplicas,
		blockSize: blockSize,
		prec:      DefaultPrecision,
		pdbWriter: pdbWriter,
		lastCheck: -1,
	}
	for _, o := range opts {
		o(D)
	}
	if err := D.validate(); err != nil {
		return nil, fmt.Errorf("vault.New: %w", err)
	}
	return D, nil
}

//Open opens the existing store at path for reading, taking its sizes from the saved
//Snapshot. The returned store needs no further initialization.
func Open(path string, kind Backend) (*DataStore, error) {
	D := &DataStore{path: path, kind: kind, lastCheck: -1}
	b, err := D.openBackend(Read)
	if err != nil {
		return nil, fmt.Errorf("vault.Open: %w", err)
	}
	D.b = b
	snap, err := D.loadSnapshot()
	if err != nil {
		b.close()
		return nil, errDecorate(err, "vault.Open")
	}
	D.nAtoms, D.nReplicas, D.blockSize, D.prec = snap.NAtoms, snap.NReplicas, snap.BlockSize, snap.Precision
	if err := D.validate(); err != nil {
		b.close()
		return nil, fmt.Errorf("vault.Open: corrupt snapshot: %w", err)
	}
	D.restore(snap)
	D.mode = Read
	return D, nil
}

func (D *DataStore) validate() error {
	if D.nAtoms <= 0 {
		return fmt.Errorf("%w: %d atoms", ErrParameter, D.nAtoms)
	}
	if D.nReplicas < 2 {
		return fmt.Errorf("%w: needs at least 2 replicas, got %d", ErrParameter, D.nReplicas)
	}
	if D.blockSize < 1 {
		return fmt.Errorf("%w: block size must be positive, got %d", ErrParameter, D.blockSize)
	}
	if D.prec < 1 || D.prec > 9 {
		return fmt.Errorf("%w: precision must be in [1, 9], got %d", ErrParameter, D.prec)
	}
	if D.kind != Dir && D.kind != SQLite {
		return fmt.Errorf("%w: unknown backend %q", ErrParameter, D.kind)
	}
	return nil
}

func (D *DataStore) openBackend(mode Mode) (backend, error) {
	if D.kind == SQLite {
		return newSQLiteBackend(D.path, mode == Write)
	}
	return newDirBackend(D.path)
}

func (D *DataStore) restore(snap *Snapshot) {
	D.runID = snap.RunID
	D.saved = make(map[string]bool)
	for _, s := range snap.Saved {
		D.saved[s] = true
	}
	D.checkpoints = make(map[int]bool)
	for _, c := range snap.Checkpoints {
		D.checkpoints[c] = true
	}
	D.lastCheck = snap.LastCheckpoint
}

//Initialize opens the store in the given mode. Write creates the store, discarding the
//records of any previous run at the same path. Append and Read need an existing store
//with the same number of atoms and replicas. Initializing again closes the previous
//backend first.
func (D *DataStore) Initialize(mode Mode) error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if mode != Write && mode != Append && mode != Read {
		return fmt.Errorf("Initialize: %w: unknown mode %q", ErrParameter, mode)
	}
	if D.b != nil {
		D.b.close()
		D.b = nil
		D.mode = ""
	}
	b, err := D.openBackend(mode)
	if err != nil {
		return fmt.Errorf("Initialize: %w", err)
	}
	if mode == Write {
		if err := b.reset(ownedKeys); err != nil {
			b.close()
			return newError("can't truncate store", D.path, err, "Initialize")
		}
		D.b = b
		D.mode = mode
		D.runID = uuid.NewString()
		D.saved = make(map[string]bool)
		D.checkpoints = make(map[int]bool)
		D.lastCheck = -1
		return nil
	}
	ok, err := b.exists()
	if err != nil {
		b.close()
		return newError("can't inspect store", D.path, err, "Initialize")
	}
	if !ok {
		b.close()
		return fmt.Errorf("Initialize: %w: no store at %s", ErrNotFound, D.path)
	}
	D.b = b
	snap, err := D.loadSnapshot()
	if err != nil {
		b.close()
		D.b = nil
		return errDecorate(err, "Initialize")
	}
	if snap.NAtoms != D.nAtoms || snap.NReplicas != D.nReplicas {
		b.close()
		D.b = nil
		return fmt.Errorf("Initialize: %w: store has %d atoms and %d replicas, expected %d and %d",
			ErrMismatch, snap.NAtoms, snap.NReplicas, D.nAtoms, D.nReplicas)
	}
	D.blockSize, D.prec = snap.BlockSize, snap.Precision
	D.restore(snap)
	D.mode = mode
	return nil
}

//Mode returns the mode the store was initialized with, or "" if it isn't.
func (D *DataStore) Mode() Mode {
	D.mu.Lock()
	defer D.mu.Unlock()
	return D.mode
}

//RunID returns the identifier of the run recorded in the store.
func (D *DataStore) RunID() string {
	D.mu.Lock()
	defer D.mu.Unlock()
	return D.runID
}

func (D *DataStore) NReplicas() int { return D.nReplicas }

func (D *DataStore) NAtoms() int { return D.nAtoms }

func (D *DataStore) BlockSize() int { return D.blockSize }

//Keys returns all the keys stored, sorted.
func (D *DataStore) Keys() ([]string, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	if D.b == nil {
		return nil, fmt.Errorf("Keys: %w", ErrNotInitialized)
	}
	k, err := D.b.keys()
	if err != nil {
		return nil, newError("can't list keys", "", err, "Keys")
	}
	return k, nil
}

//Close closes the backend. The store must be initialized again to be used.
func (D *DataStore) Close() error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if D.b == nil {
		return nil
	}
	err := D.b.close()
	D.b = nil
	D.mode = ""
	if err != nil {
		return newError("can't close store", D.path, err, "Close")
	}
	return nil
}

//writable must be called with the lock held.
func (D *DataStore) writable(caller string) error {
	if D.b == nil {
		return fmt.Errorf("%s: %w", caller, ErrNotInitialized)
	}
	if D.mode == Read {
		return fmt.Errorf("%s: %w", caller, ErrReadOnly)
	}
	return nil
}

//after checks, with the lock held, that the given records were saved before.
func (D *DataStore) after(caller string, records ...string) error {
	for _, r := range records {
		if !D.saved[r] {
			return fmt.Errorf("%s: %w: %s must be saved first", caller, ErrOutOfOrder, r)
		}
	}
	return nil
}

func (D *DataStore) putJSON(key string, v any, caller string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return newError("can't encode", key, err, caller)
	}
	if err := D.b.put(key, data); err != nil {
		return newError("can't write", key, err, caller)
	}
	return nil
}

func (D *DataStore) getJSON(key string, v any, caller string) error {
	if D.b == nil {
		return fmt.Errorf("%s: %w", caller, ErrNotInitialized)
	}
	data, err := D.b.get(key)
	if err != nil {
		return newError("can't read", key, err, caller)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return newError("can't decode", key, err, caller)
	}
	return nil
}

//SaveSystem saves the system and, if the store has a PDB writer, a PDB of it.
func (D *DataStore) SaveSystem(s *system.System) error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if err := D.writable("SaveSystem"); err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("SaveSystem: %w: nil system", ErrParameter)
	}
	if s.NAtoms() != D.nAtoms {
		return fmt.Errorf("SaveSystem: %w: system has %d atoms, store %d", ErrMismatch, s.NAtoms(), D.nAtoms)
	}
	rec, err := s.Record()
	if err != nil {
		return fmt.Errorf("SaveSystem: %w", err)
	}
	if err := D.putJSON(SystemKey, rec, "SaveSystem"); err != nil {
		return err
	}
	if D.pdbWriter != nil {
		var buf bytes.Buffer
		if err := D.pdbWriter.Write(&buf, s.Coordinates(), s.BoxVectors()); err != nil {
			return newError("can't build PDB", SystemPDBKey, err, "SaveSystem")
		}
		if err := D.b.put(SystemPDBKey, buf.Bytes()); err != nil {
			return newError("can't write", SystemPDBKey, err, "SaveSystem")
		}
	}
	D.saved[systemRecord] = true
	return nil
}

//LoadSystem returns the saved system.
func (D *DataStore) LoadSystem() (*system.System, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	rec := new(system.Record)
	if err := D.getJSON(SystemKey, rec, "LoadSystem"); err != nil {
		return nil, err
	}
	s, err := system.FromRecord(rec)
	if err != nil {
		return nil, fmt.Errorf("LoadSystem: %w", err)
	}
	return s, nil
}

//SaveRunOptions saves the options of the run.
func (D *DataStore) SaveRunOptions(o system.RunOptions) error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if err := D.writable("SaveRunOptions"); err != nil {
		return err
	}
	if err := o.Validate(); err != nil {
		return fmt.Errorf("SaveRunOptions: %w", err)
	}
	if err := D.putJSON(RunOptionsKey, o, "SaveRunOptions"); err != nil {
		return err
	}
	D.saved[runOptionsRecord] = true
	return nil
}

//LoadRunOptions returns the saved run options.
func (D *DataStore) LoadRunOptions() (system.RunOptions, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	var o system.RunOptions
	if err := D.getJSON(RunOptionsKey, &o, "LoadRunOptions"); err != nil {
		return o, err
	}
	return o, nil
}

//SaveRemdRunner saves the runner. The system and run options must have been saved,
//and the runner must be sized for the replicas of the store.
func (D *DataStore) SaveRemdRunner(r *remd.LeaderRunner) error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if err := D.writable("SaveRemdRunner"); err != nil {
		return err
	}
	if err := D.after("SaveRemdRunner", systemRecord, runOptionsRecord); err != nil {
		return err
	}
	if r == nil {
		return fmt.Errorf("SaveRemdRunner: %w: nil runner", ErrParameter)
	}
	if err := r.Validate(); err != nil {
		return fmt.Errorf("SaveRemdRunner: %w", err)
	}
	if r.NReplicas != D.nReplicas {
		return fmt.Errorf("SaveRemdRunner: %w: runner has %d replicas, store %d", ErrMismatch, r.NReplicas, D.nReplicas)
	}
	if err := D.putJSON(RemdRunnerKey, r, "SaveRemdRunner"); err != nil {
		return err
	}
	D.saved[remdRunnerRecord] = true
	return nil
}

//LoadRemdRunner returns the saved runner.
func (D *DataStore) LoadRemdRunner() (*remd.LeaderRunner, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	r := new(remd.LeaderRunner)
	if err := D.getJSON(RemdRunnerKey, r, "LoadRemdRunner"); err != nil {
		return nil, err
	}
	return r, nil
}

//SaveCommunicator saves the communicator, which must be sized for the atoms and
//replicas of the store. The system and run options must have been saved.
func (D *DataStore) SaveCommunicator(c *comm.MPICommunicator) error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if err := D.writable("SaveCommunicator"); err != nil {
		return err
	}
	if err := D.after("SaveCommunicator", systemRecord, runOptionsRecord); err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("SaveCommunicator: %w: nil communicator", ErrParameter)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("SaveCommunicator: %w", err)
	}
	if c.NAtoms != D.nAtoms || c.NReplicas != D.nReplicas {
		return fmt.Errorf("SaveCommunicator: %w: communicator for %d atoms and %d replicas, store has %d and %d",
			ErrMismatch, c.NAtoms, c.NReplicas, D.nAtoms, D.nReplicas)
	}
	if err := D.putJSON(CommunicatorKey, c, "SaveCommunicator"); err != nil {
		return err
	}
	D.saved[communicatorRecord] = true
	return nil
}

//LoadCommunicator returns the saved communicator.
func (D *DataStore) LoadCommunicator() (*comm.MPICommunicator, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	c := new(comm.MPICommunicator)
	if err := D.getJSON(CommunicatorKey, c, "LoadCommunicator"); err != nil {
		return nil, err
	}
	return c, nil
}

type replicaRecord struct {
	Index      int       `json:"index"`
	Alpha      float64   `json:"alpha"`
	Energy     float64   `json:"energy"`
	BoxVectors []float64 `json:"box_vectors"`
}

type checkpointRecord struct {
	Checkpoint int             `json:"checkpoint"`
	NAtoms     int             `json:"n_atoms"`
	Replicas   []replicaRecord `json:"replicas"`
}

//SaveStates saves the states of all replicas at checkpoint. There must be one state
//per replica, all with the number of atoms of the store, and the system and run options
//must have been saved. Saving a checkpoint again replaces it.
func (D *DataStore) SaveStates(states []*state.SystemState, checkpoint int) error {
	D.mu.Lock()
	defer D.mu.Unlock()
	if err := D.writable("SaveStates"); err != nil {
		return err
	}
	if err := D.after("SaveStates", systemRecord, runOptionsRecord); err != nil {
		return err
	}
	if checkpoint < 0 {
		return fmt.Errorf("SaveStates: %w: negative checkpoint %d", ErrParameter, checkpoint)
	}
	if len(states) != D.nReplicas {
		return fmt.Errorf("SaveStates: %w: %d states for %d replicas", ErrMismatch, len(states), D.nReplicas)
	}
	rec := checkpointRecord{Checkpoint: checkpoint, NAtoms: D.nAtoms, Replicas: make([]replicaRecord, len(states))}
	for i, s := range states {
		if s == nil {
			return fmt.Errorf("SaveStates: %w: state %d is nil", ErrParameter, i)
		}
		if err := s.Check(D.nAtoms); err != nil {
			return fmt.Errorf("SaveStates: state %d: %w: %w", i, ErrMismatch, err)
		}
		rec.Replicas[i] = replicaRecord{Index: i, Alpha: s.Alpha, Energy: s.Energy, BoxVectors: append([]float64(nil), s.BoxVectors...)}
	}
	pos, err := D.encodeFrames("positions", "nm", checkpoint, states, func(s *state.SystemState) *v3.Matrix { return s.Positions })
	if err != nil {
		return errDecorate(err, "SaveStates")
	}
	vel, err := D.encodeFrames("velocities", "nm/ps", checkpoint, states, func(s *state.SystemState) *v3.Matrix { return s.Velocities })
	if err != nil {
		return errDecorate(err, "SaveStates")
	}
	pk, vk := PositionsKey(checkpoint, D.blockSize), VelocitiesKey(checkpoint, D.blockSize)
	if err := D.b.put(pk, pos); err != nil {
		return newError("can't write", pk, err, "SaveStates")
	}
	if err := D.b.put(vk, vel); err != nil {
		return newError("can't write", vk, err, "SaveStates")
	}
	if err := D.putJSON(StatesKey(checkpoint, D.blockSize), rec, "SaveStates"); err != nil {
		return err
	}
	D.checkpoints[checkpoint] = true
	if checkpoint > D.lastCheck {
		D.lastCheck = checkpoint
	}
	D.saved[statesRecord] = true
	return nil
}

func (D *DataStore) encodeFrames(kind, units string, checkpoint int, states []*state.SystemState, field func(*state.SystemState) *v3.Matrix) ([]byte, error) {
	var buf bytes.Buffer
	header := map[string]string{
		"prec":       fmt.Sprint(D.prec),
		"units":      units,
		"kind":       kind,
		"checkpoint": fmt.Sprint(checkpoint),
		"n_replicas": fmt.Sprint(len(states)),
		"run_id":     D.runID,
	}
	w, err := stf.NewWriter(&buf, kind, D.nAtoms, header)
	if err != nil {
		return nil, newError("can't start trajectory", kind, err, "encodeFrames")
	}
	for i, s := range states {
		if err := w.WNext(field(s), boxMatrix(s.BoxVectors)); err != nil {
			return nil, newError(fmt.Sprintf("can't write replica %d", i), kind, err, "encodeFrames")
		}
	}
	if err := w.Close(); err != nil {
		return nil, newError("can't finish trajectory", kind, err, "encodeFrames")
	}
	return buf.Bytes(), nil
}

//boxMatrix turns the box lengths into the 9 box vector components of an orthorhombic box.
func boxMatrix(box []float64) []float64 {
	b := make([]float64, 9)
	for i := 0; i < 3 && i < len(box); i++ {
		b[4*i] = box[i]
	}
	return b
}

func (D *DataStore) decodeFrames(key string) ([]*v3.Matrix, error) {
	data, err := D.b.get(key)
	if err != nil {
		return nil, newError("can't read", key, err, "decodeFrames")
	}
	r, _, err := stf.NewReader(bytes.NewReader(data), key)
	if err != nil {
		return nil, newError("can't open trajectory", key, err, "decodeFrames")
	}
	defer r.Close()
	if r.Len() != D.nAtoms {
		return nil, newError(fmt.Sprintf("trajectory has %d atoms, store %d", r.Len(), D.nAtoms), key, ErrMismatch, "decodeFrames")
	}
	frames, _, err := r.ReadAll()
	if err != nil {
		return nil, newError("can't read trajectory", key, err, "decodeFrames")
	}
	if len(frames) != D.nReplicas {
		return nil, newError(fmt.Sprintf("trajectory has %d frames, store has %d replicas", len(frames), D.nReplicas), key, ErrMismatch, "decodeFrames")
	}
	return frames, nil
}

//LoadStates returns the states of all replicas saved at checkpoint. Positions and
//velocities are exact only up to the precision of the store.
func (D *DataStore) LoadStates(checkpoint int) ([]*state.SystemState, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	var rec checkpointRecord
	if err := D.getJSON(StatesKey(checkpoint, D.blockSize), &rec, "LoadStates"); err != nil {
		return nil, err
	}
	if len(rec.Replicas) != D.nReplicas {
		return nil, fmt.Errorf("LoadStates: %w: checkpoint %d has %d replicas", ErrMismatch, checkpoint, len(rec.Replicas))
	}
	pos, err := D.decodeFrames(PositionsKey(checkpoint, D.blockSize))
	if err != nil {
		return nil, errDecorate(err, "LoadStates")
	}
	vel, err := D.decodeFrames(VelocitiesKey(checkpoint, D.blockSize))
	if err != nil {
		return nil, errDecorate(err, "LoadStates")
	}
	ret := make([]*state.SystemState, D.nReplicas)
	for i, r := range rec.Replicas {
		ret[i], err = state.New(pos[i], vel[i], r.Alpha, r.Energy, r.BoxVectors)
		if err != nil {
			return nil, fmt.Errorf("LoadStates: replica %d: %w", i, err)
		}
	}
	return ret, nil
}

//Checkpoints returns the checkpoints saved in the store, in increasing order.
func (D *DataStore) Checkpoints() []int {
	D.mu.Lock()
	defer D.mu.Unlock()
	ret := make([]int, 0, len(D.checkpoints))
	for c := range D.checkpoints {
		ret = append(ret, c)
	}
	sort.Ints(ret)
	return ret
}

//snapshot must be called with the lock held.
func (D *DataStore) snapshot() *Snapshot {
	S := &Snapshot{
		RunID:          D.runID,
		Backend:        D.kind,
		NAtoms:         D.nAtoms,
		NReplicas:      D.nReplicas,
		BlockSize:      D.blockSize,
		Precision:      D.prec,
		LastCheckpoint: D.lastCheck,
		Checkpoints:    make([]int, 0, len(D.checkpoints)),
		UpdatedAt:      time.Now().UTC(),
	}
	for c := range D.checkpoints {
		S.Checkpoints = append(S.Checkpoints, c)
	}
	sort.Ints(S.Checkpoints)
	S.Complete = true
	for _, r := range []string{systemRecord, runOptionsRecord, remdRunnerRecord, communicatorRecord, statesRecord} {
		if D.saved[r] {
			S.Saved = append(S.Saved, r)
		} else {
			S.Complete = false
		}
	}
	return S
}

//SaveDataStore saves the description of the store itself, and returns it. A store with
//every record saved is marked complete.
func (D *DataStore) SaveDataStore() (*Snapshot, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	if err := D.writable("SaveDataStore"); err != nil {
		return nil, err
	}
	S := D.snapshot()
	if err := D.putJSON(DataStoreKey, S, "SaveDataStore"); err != nil {
		return nil, err
	}
	return S, nil
}

//LoadDataStore returns the saved description of the store.
func (D *DataStore) LoadDataStore() (*Snapshot, error) {
	D.mu.Lock()
	defer D.mu.Unlock()
	return D.loadSnapshot()
}

func (D *DataStore) loadSnapshot() (*Snapshot, error) {
	S := new(Snapshot)
	if err := D.getJSON(DataStoreKey, S, "LoadDataStore"); err != nil {
		return nil, err
	}
	return S, nil
}
