// Package sstable implements the immutable, on-disk sorted table: a flat
// concatenation of record frames in ascending key order, with no header,
// footer, or persisted index. The key-to-offset index is kept in memory:
// recorded frame by frame while Create writes the file, and rebuilt by
// scanning the file once when OpenFromFile opens it.
package sstable

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

const Extension = ".dat"

// SSTable is a handle on one immutable on-disk table and its in-memory
// key-to-offset index.
type SSTable struct {
	path  string
	index map[string]uint64
}

// Create writes a new SSTable at <dataDir>/<filename> from mt's entries,
// in the memtable's ascending key order, recording each key's pre-write
// offset in the returned table's index.
func Create(dataDir string, mt *memtable.Memtable, filename string) (*SSTable, error) {
	path := filepath.Join(dataDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, kvserr.IO("create sstable", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	index := make(map[string]uint64, mt.Len())

	var offset uint64
	var writeErr error
	mt.Ascend(func(key string, v value.Value) {
		if writeErr != nil {
			return
		}
		index[key] = offset
		frame := record.Encode(key, v)
		if _, err := bw.Write(frame); err != nil {
			writeErr = err
			return
		}
		offset += uint64(len(frame))
	})
	if writeErr != nil {
		return nil, kvserr.IO("write sstable", path, writeErr)
	}

	if err := bw.Flush(); err != nil {
		return nil, kvserr.IO("write sstable", path, err)
	}
	if err := f.Sync(); err != nil {
		return nil, kvserr.IO("write sstable", path, err)
	}

	return &SSTable{path: path, index: index}, nil
}

// OpenFromFile scans an existing SSTable file from offset 0 to rebuild its
// key-to-offset index in memory.
func OpenFromFile(path string) (*SSTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, kvserr.IO("open sstable", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, kvserr.IO("stat sstable", path, err)
	}
	size := info.Size()

	index := make(map[string]uint64)
	br := bufio.NewReader(f)
	var offset int64
	for offset < size {
		key, _, n, err := record.DecodeFrom(br)
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		index[key] = uint64(offset)
		offset += int64(n)
	}

	return &SSTable{path: path, index: index}, nil
}

// Get looks up key in the in-memory index; a miss returns (Value{}, false,
// nil). A hit opens an independent reader at the stored offset and decodes
// the frame there, so concurrent Get calls never share file state.
func (s *SSTable) Get(key string) (value.Value, bool, error) {
	offset, ok := s.index[key]
	if !ok {
		return value.Value{}, false, nil
	}

	f, err := os.Open(s.path)
	if err != nil {
		return value.Value{}, false, kvserr.IO("open sstable", s.path, err)
	}
	defer f.Close()

	if _, err := f.Seek(int64(offset), io.SeekStart); err != nil {
		return value.Value{}, false, kvserr.IO("seek sstable", s.path, err)
	}

	_, v, _, err := record.DecodeFrom(bufio.NewReader(f))
	if err != nil {
		return value.Value{}, false, err
	}
	return v, true, nil
}

// Keys returns the table's keys in unspecified order; callers that need
// ascending order must sort.
func (s *SSTable) Keys() []string {
	keys := make([]string, 0, len(s.index))
	for k := range s.index {
		keys = append(keys, k)
	}
	return keys
}

// Path returns the table's file path, used by compaction for deletion.
func (s *SSTable) Path() string { return s.path }
