// Package engine coordinates the memtable, the write-ahead log, and the
// list of on-disk SSTables: it implements put/delete/get, flush,
// compaction, and the startup recovery procedure that replays the WAL
// into a fresh memtable. The engine assumes a single caller; a port that
// wants to serve concurrent connections must add its own mutual
// exclusion around it (cmd/kvsd does so with a mutex).
package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"lsmkv/kvserr"
	"lsmkv/memtable"
	"lsmkv/sstable"
	"lsmkv/value"
	"lsmkv/wal"
)

// DefaultLimit is the memtable entry-count threshold used when Options
// does not specify one.
const DefaultLimit = 1024

// Options configures Open. There are no environment-variable or singleton
// lookups: every setting is passed in explicitly.
type Options struct {
	DataDir     string
	WALFilename string // defaults to wal.Filename
	Limit       int    // defaults to DefaultLimit
}

func (o Options) withDefaults() Options {
	if o.WALFilename == "" {
		o.WALFilename = wal.Filename
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	return o
}

// Engine is the storage engine: memtable, WAL, and the ordered list of
// SSTables (oldest first).
type Engine struct {
	opts     Options
	mt       *memtable.Memtable
	w        *wal.WAL
	sstables []*sstable.SSTable
}

// Open constructs an engine over an existing data directory: it loads
// every .dat file present, opens or creates the WAL, and replays the WAL
// into the initial memtable.
func Open(opts Options) (*Engine, error) {
	opts = opts.withDefaults()

	info, err := os.Stat(opts.DataDir)
	if err != nil || !info.IsDir() {
		return nil, kvserr.ErrDirectoryNotFound
	}

	tables, err := loadSSTables(opts.DataDir)
	if err != nil {
		return nil, err
	}

	w, err := wal.Create(opts.DataDir, opts.WALFilename)
	if err != nil {
		return nil, err
	}

	mt, err := w.Replay()
	if err != nil {
		return nil, err
	}

	return &Engine{opts: opts, mt: mt, w: w, sstables: tables}, nil
}

// loadSSTables enumerates *.dat files and opens them in ascending
// timestamp order, oldest first, so later entries in the returned slice
// are treated as newer. See the design notes on SSTable filename
// ordering: filesystem enumeration order is not trusted.
func loadSSTables(dataDir string) ([]*sstable.SSTable, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, kvserr.IO("list data directory", dataDir, err)
	}

	type named struct {
		ts   int64
		name string
	}
	var files []named
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != sstable.Extension {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), sstable.Extension)
		ts, err := strconv.ParseInt(stem, 10, 64)
		if err != nil {
			return nil, kvserr.Conversion("sstable filename %q is not a unix timestamp: %v", e.Name(), err)
		}
		files = append(files, named{ts: ts, name: e.Name()})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].ts < files[j].ts })

	tables := make([]*sstable.SSTable, 0, len(files))
	for _, f := range files {
		st, err := sstable.OpenFromFile(filepath.Join(dataDir, f.name))
		if err != nil {
			return nil, err
		}
		tables = append(tables, st)
	}
	return tables, nil
}

// Put inserts or overwrites the value stored for key.
func (e *Engine) Put(key, payload string) error {
	return e.upsert(key, value.New(payload, false))
}

// Delete writes a tombstone for key. Deleting a non-existent key is not
// an error.
func (e *Engine) Delete(key string) error {
	return e.upsert(key, value.New("", true))
}

func (e *Engine) upsert(key string, v value.Value) error {
	if _, err := e.w.Append(key, v); err != nil {
		return err
	}
	e.mt.Put(key, v)
	if e.mt.Len() > e.opts.Limit {
		return e.Flush()
	}
	return nil
}

// Get returns the live value for key, or ok=false if the key is absent
// or has been deleted.
func (e *Engine) Get(key string) (v value.Value, ok bool, err error) {
	if v, ok := e.mt.Get(key); ok {
		if v.IsDeleted() {
			return value.Value{}, false, nil
		}
		return v, true, nil
	}

	for i := len(e.sstables) - 1; i >= 0; i-- {
		v, ok, err := e.sstables[i].Get(key)
		if err != nil {
			return value.Value{}, false, err
		}
		if ok {
			if v.IsDeleted() {
				return value.Value{}, false, nil
			}
			return v, true, nil
		}
	}

	return value.Value{}, false, nil
}

// Flush seals the current memtable into a new SSTable and truncates the
// WAL. If SSTable creation fails the memtable and WAL are left untouched;
// if truncation fails afterward, the new SSTable and the WAL both hold
// the same records - a state that a subsequent recovery resolves
// idempotently (see the engine's replay procedure).
func (e *Engine) Flush() error {
	filename := e.nextSSTableFilename()

	st, err := sstable.Create(e.opts.DataDir, e.mt, filename)
	if err != nil {
		return err
	}

	if err := e.w.Truncate(); err != nil {
		return err
	}

	e.mt.Clear()
	e.sstables = append(e.sstables, st)
	return nil
}

// Compaction merges every SSTable into a single new one, newest values
// winning on duplicate keys, and removes the old tables. Tombstones
// survive compaction; the engine does not garbage-collect them.
func (e *Engine) Compaction() error {
	merged := memtable.New()
	for _, st := range e.sstables {
		for _, k := range st.Keys() {
			v, ok, err := st.Get(k)
			if err != nil {
				return err
			}
			if ok {
				merged.Put(k, v)
			}
		}
	}

	oldPaths := make([]string, len(e.sstables))
	for i, st := range e.sstables {
		oldPaths[i] = st.Path()
	}

	filename := e.nextSSTableFilename()
	tmpPath := filepath.Join(e.opts.DataDir, filename+".tmp")
	finalPath := filepath.Join(e.opts.DataDir, filename)

	if _, err := sstable.Create(e.opts.DataDir, merged, filename+".tmp"); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return kvserr.IO("rename compacted sstable", tmpPath, err)
	}

	for _, p := range oldPaths {
		if err := os.Remove(p); err != nil {
			return kvserr.IO("remove old sstable", p, err)
		}
	}

	reopened, err := sstable.OpenFromFile(finalPath)
	if err != nil {
		return err
	}

	e.sstables = []*sstable.SSTable{reopened}
	return nil
}

// nextSSTableFilename returns "<unix seconds>.dat" for the current time,
// or one second past the newest table's timestamp if that is not already
// later, so a new table never reuses an existing table's file name and
// always sorts after every existing table.
func (e *Engine) nextSSTableFilename() string {
	ts := time.Now().Unix()
	if n := len(e.sstables); n > 0 {
		stem := strings.TrimSuffix(filepath.Base(e.sstables[n-1].Path()), sstable.Extension)
		if last, err := strconv.ParseInt(stem, 10, 64); err == nil && ts <= last {
			ts = last + 1
		}
	}
	return fmt.Sprintf("%d%s", ts, sstable.Extension)
}
