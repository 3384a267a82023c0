package archive

import (
	"cmp"
	"time"

	"github.com/crytic/concolic/logging"
	"github.com/crytic/concolic/logging/colors"
	"github.com/crytic/concolic/symbolic"
	"github.com/crytic/concolic/version"
	"github.com/fxamacker/cbor"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
	"golang.org/x/exp/slices"
)

var (
	// executionsBucket maps record ids to serialized records.
	executionsBucket = []byte("executions")

	// fingerprintsBucket maps path fingerprints to the id of the first record which reached the path.
	fingerprintsBucket = []byte("fingerprints")
)

var (
	// ErrRecordNotFound is returned when a record id is not present in the Archive.
	ErrRecordNotFound = errors.New("archive record not found")

	// ErrIncompatibleRecord is returned when a record was archived by a runtime whose executions this build cannot
	// read. See version.Info.Compatible.
	ErrIncompatibleRecord = errors.New("archive record is incompatible with this runtime")
)

// Archive is a persistent store of recorded executions, keyed by a unique record id and deduplicated by path
// fingerprint. It is safe for concurrent use.
type Archive struct {
	// db describes the underlying database.
	db *bbolt.DB

	// logger describes the Archive's logger.
	logger *logging.Logger
}

// Record describes a single archived execution.
type Record struct {
	// ID describes the unique id of the record.
	ID uuid.UUID

	// Fingerprint describes the fingerprint of the execution's path. See Fingerprint.
	Fingerprint string

	// Created describes when the record was added to the Archive.
	Created time.Time

	// RuntimeVersion describes the version of the runtime which archived the record.
	RuntimeVersion string

	// Execution describes the archived execution.
	Execution *symbolic.Execution
}

// Summary describes an archived execution without decoding it.
type Summary struct {
	// ID describes the unique id of the record.
	ID uuid.UUID

	// Fingerprint describes the fingerprint of the execution's path.
	Fingerprint string

	// Created describes when the record was added to the Archive.
	Created time.Time

	// NumInputs describes the length of the execution's input vector.
	NumInputs int

	// NumConstraints describes the number of symbolic branch constraints on the execution's path.
	NumConstraints int

	// RuntimeVersion describes the version of the runtime which archived the record.
	RuntimeVersion string
}

// storedRecord is the persisted representation of a Record.
type storedRecord struct {
	Sequence       uint64 `cbor:"sequence"`
	Fingerprint    string `cbor:"fingerprint"`
	Created        int64  `cbor:"created"`
	NumInputs      int    `cbor:"numInputs"`
	NumConstraints int    `cbor:"numConstraints"`
	RuntimeVersion string `cbor:"runtimeVersion"`
	Execution      []byte `cbor:"execution"`
}

// Open opens the Archive stored at path, creating it if it does not exist. Opening fails if another process holds the
// database for longer than a second.
func Open(path string) (*Archive, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "could not open archive %s", path)
	}

	// Create the buckets if they don't exist
	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{executionsBucket, fingerprintsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WithStack(err)
	}

	return &Archive{
		db:     db,
		logger: logging.GlobalLogger.NewSubLogger("module", logging.ARCHIVE_SERVICE),
	}, nil
}

// Put stores the provided execution. If an execution with the same path fingerprint is already archived, nothing is
// stored and the existing record id is returned with isNew set to false.
func (a *Archive) Put(ex *symbolic.Execution) (id uuid.UUID, isNew bool, err error) {
	fingerprint := Fingerprint(ex.Path())

	data, err := ex.MarshalBinary()
	if err != nil {
		return uuid.Nil, false, err
	}

	err = a.db.Update(func(tx *bbolt.Tx) error {
		fingerprints := tx.Bucket(fingerprintsBucket)
		if existing := fingerprints.Get([]byte(fingerprint)); existing != nil {
			existingID, err := uuid.FromBytes(existing)
			id = existingID
			return err
		}

		executions := tx.Bucket(executionsBucket)
		sequence, err := executions.NextSequence()
		if err != nil {
			return err
		}

		id = uuid.New()
		isNew = true
		stored, err := cbor.Marshal(storedRecord{
			Sequence:       sequence,
			Fingerprint:    fingerprint,
			Created:        time.Now().UnixNano(),
			NumInputs:      ex.NumInputs(),
			NumConstraints: len(ex.Path().Constraints()),
			RuntimeVersion: version.GetInfo().Version,
			Execution:      data,
		}, cbor.EncOptions{})
		if err != nil {
			return err
		}
		if err = executions.Put(id[:], stored); err != nil {
			return err
		}
		return fingerprints.Put([]byte(fingerprint), id[:])
	})
	if err != nil {
		return uuid.Nil, false, errors.WithStack(err)
	}

	if isNew {
		a.logger.Debug("Archived execution ", colors.Bold, id, colors.Reset, " with fingerprint ", fingerprint)
	} else {
		a.logger.Debug("Execution path already archived as ", colors.Bold, id, colors.Reset)
	}
	return id, isNew, nil
}

// Get returns the record with the provided id, or ErrRecordNotFound if there is none. Records archived by an
// incompatible runtime are not decoded and ErrIncompatibleRecord is returned.
func (a *Archive) Get(id uuid.UUID) (*Record, error) {
	var stored *storedRecord
	err := a.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(executionsBucket).Get(id[:])
		if data == nil {
			return nil
		}
		stored = &storedRecord{}
		return cbor.Unmarshal(data, stored)
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if stored == nil {
		return nil, errors.Wrapf(ErrRecordNotFound, "record %s", id)
	}
	if compatible, err := version.GetInfo().Compatible(stored.RuntimeVersion); err != nil || !compatible {
		return nil, errors.Wrapf(ErrIncompatibleRecord, "record %s was archived by runtime '%s'", id, stored.RuntimeVersion)
	}

	ex := &symbolic.Execution{}
	if err := ex.UnmarshalBinary(stored.Execution); err != nil {
		return nil, errors.Wrapf(err, "record %s is corrupt", id)
	}
	return &Record{
		ID:             id,
		Fingerprint:    stored.Fingerprint,
		Created:        time.Unix(0, stored.Created),
		RuntimeVersion: stored.RuntimeVersion,
		Execution:      ex,
	}, nil
}

// Contains returns whether an execution reaching the provided path fingerprint is archived.
func (a *Archive) Contains(fingerprint string) (bool, error) {
	found := false
	err := a.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(fingerprintsBucket).Get([]byte(fingerprint)) != nil
		return nil
	})
	return found, errors.WithStack(err)
}

// List returns a summary of every archived execution, oldest first.
func (a *Archive) List() ([]Summary, error) {
	summaries := make([]Summary, 0)
	sequences := make(map[uuid.UUID]uint64)
	err := a.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(executionsBucket).ForEach(func(k, v []byte) error {
			id, err := uuid.FromBytes(k)
			if err != nil {
				return err
			}
			var stored storedRecord
			if err = cbor.Unmarshal(v, &stored); err != nil {
				return err
			}
			sequences[id] = stored.Sequence
			summaries = append(summaries, Summary{
				ID:             id,
				Fingerprint:    stored.Fingerprint,
				Created:        time.Unix(0, stored.Created),
				NumInputs:      stored.NumInputs,
				NumConstraints: stored.NumConstraints,
				RuntimeVersion: stored.RuntimeVersion,
			})
			return nil
		})
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Order by insertion
	slices.SortFunc(summaries, func(x, y Summary) int {
		return cmp.Compare(sequences[x.ID], sequences[y.ID])
	})
	return summaries, nil
}

// Len returns the number of archived executions.
func (a *Archive) Len() (int, error) {
	count := 0
	err := a.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket(executionsBucket).Stats().KeyN
		return nil
	})
	return count, errors.WithStack(err)
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return errors.WithStack(a.db.Close())
}
