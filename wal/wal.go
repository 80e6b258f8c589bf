// Package wal implements the append-only durability log: a flat
// concatenation of record frames (see package record), no block framing,
// no chunking. Every append opens the file, writes one frame through a
// buffered writer, and closes it again - the open/close pair is what
// gives each append its own atomic seek-to-end.
package wal

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"lsmkv/kvserr"
	"lsmkv/memtable"
	"lsmkv/record"
	"lsmkv/value"
)

const Filename = "wal"

// WAL is a handle on the write-ahead log file at <dataDir>/<filename>.
type WAL struct {
	path string
}

// Create checks that dataDir exists (returning kvserr.ErrDirectoryNotFound
// otherwise) and that the WAL file is present, creating it empty if
// absent. It does not hold the file open between calls.
func Create(dataDir, filename string) (*WAL, error) {
	info, err := os.Stat(dataDir)
	if err != nil || !info.IsDir() {
		return nil, kvserr.ErrDirectoryNotFound
	}

	path := filepath.Join(dataDir, filename)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, kvserr.IO("create wal", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, kvserr.IO("create wal", path, err)
	}

	return &WAL{path: path}, nil
}

// Append opens the file in append mode, writes one record frame, and
// closes it. Returns the number of bytes written. On failure the caller
// must not apply the mutation to the memtable.
func (w *WAL) Append(key string, v value.Value) (int, error) {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return 0, kvserr.IO("open wal for append", w.path, err)
	}
	defer f.Close()

	frame := record.Encode(key, v)
	bw := bufio.NewWriter(f)
	if _, err := bw.Write(frame); err != nil {
		return 0, kvserr.IO("append wal", w.path, err)
	}
	if err := bw.Flush(); err != nil {
		return 0, kvserr.IO("append wal", w.path, err)
	}
	return len(frame), nil
}

// Truncate atomically resets the WAL file to zero length.
func (w *WAL) Truncate() error {
	if err := os.Truncate(w.path, 0); err != nil {
		return kvserr.IO("truncate wal", w.path, err)
	}
	return nil
}

// Replay decodes every frame in the WAL from offset 0 to end-of-file and
// returns an ordered mapping of key to value, later records winning on
// duplicate keys. An empty WAL yields an empty, non-nil memtable.
func (w *WAL) Replay() (*memtable.Memtable, error) {
	f, err := os.Open(w.path)
	if err != nil {
		return nil, kvserr.IO("open wal for replay", w.path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, kvserr.IO("stat wal", w.path, err)
	}
	size := info.Size()

	m := memtable.New()
	br := bufio.NewReader(f)
	var offset int64
	for offset < size {
		key, v, n, err := record.DecodeFrom(br)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		m.Put(key, v)
		offset += int64(n)
	}

	return m, nil
}

// Path returns the WAL's file path.
func (w *WAL) Path() string { return w.path }
