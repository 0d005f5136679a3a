// Package patchfile reads and writes baked terrain patch sets. A patch
// file captures one tessellation result: the view parameters it was
// built from, per-density-bucket counts and the patch records with
// their blend codes.
package patchfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Patch file errors.
var (
	ErrInvalidMagic       = errors.New("invalid patch file magic: expected 'VTPF'")
	ErrUnsupportedVersion = errors.New("unsupported patch file version")
	ErrTruncatedData      = errors.New("truncated patch file data")
	ErrCorruptCounts      = errors.New("corrupt patch file counts")
)

// Magic identifies a patch file.
const Magic = "VTPF"

// Version is the current file version.
const Version = 1

// NumBuckets is the number of density buckets in the file layout.
const NumBuckets = 4

// maxBucketRecords bounds a single bucket; larger counts indicate a
// corrupt or hostile file.
const maxBucketRecords = 1 << 24

// recordSize is the encoded size of one Record in bytes.
const recordSize = 24

// Params echoes the view parameters a patch set was built from.
type Params struct {
	Scale        float32
	ViewerX      float32
	ViewerY      float32
	ViewerZ      float32
	ViewDistance float32
	MaxDepth     uint32
	WorldExtent  uint32
	RootGrid     uint32
}

// Record is one baked patch. Coordinates are grid units at the patch's
// own size level; Stitch and Morph carry the packed per-edge blend codes.
type Record struct {
	X            uint32
	Y            uint32
	Size         uint32
	Stitch       uint32
	Morph        uint32
	SpecialMorph uint32
}

// GridRect returns the patch footprint in world grid units.
func (r Record) GridRect() (x0, y0, x1, y1 uint32) {
	x0 = r.X * r.Size
	y0 = r.Y * r.Size
	return x0, y0, x0 + r.Size, y0 + r.Size
}

// File is a parsed patch file.
type File struct {
	Version uint32
	Params  Params
	Buckets [NumBuckets][]Record
}

// TotalCount returns the patch count across all buckets.
func (f *File) TotalCount() int {
	total := 0
	for _, b := range f.Buckets {
		total += len(b)
	}
	return total
}

// Counts returns the per-bucket patch counts.
func (f *File) Counts() [NumBuckets]int {
	var counts [NumBuckets]int
	for i, b := range f.Buckets {
		counts[i] = len(b)
	}
	return counts
}

// MaxSize returns the largest patch size in the file, or zero when empty.
func (f *File) MaxSize() uint32 {
	var max uint32
	for _, b := range f.Buckets {
		for _, r := range b {
			if r.Size > max {
				max = r.Size
			}
		}
	}
	return max
}

// Parse parses a patch file from raw bytes.
func Parse(data []byte) (*File, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedData
	}
	if string(data[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}

	r := bytes.NewReader(data[4:])

	f := &File{}
	if err := binary.Read(r, binary.LittleEndian, &f.Version); err != nil {
		return nil, fmt.Errorf("%w: reading version", ErrTruncatedData)
	}
	if f.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, f.Version)
	}
	if err := binary.Read(r, binary.LittleEndian, &f.Params); err != nil {
		return nil, fmt.Errorf("%w: reading params", ErrTruncatedData)
	}

	var counts [NumBuckets]uint32
	if err := binary.Read(r, binary.LittleEndian, &counts); err != nil {
		return nil, fmt.Errorf("%w: reading bucket counts", ErrTruncatedData)
	}
	total := 0
	for lod, n := range counts {
		if n > maxBucketRecords {
			return nil, fmt.Errorf("%w: bucket %d claims %d records", ErrCorruptCounts, lod, n)
		}
		total += int(n)
	}
	if r.Len() < total*recordSize {
		return nil, fmt.Errorf("%w: %d records need %d bytes, have %d",
			ErrTruncatedData, total, total*recordSize, r.Len())
	}

	for lod, n := range counts {
		if n == 0 {
			continue
		}
		records := make([]Record, n)
		if err := binary.Read(r, binary.LittleEndian, records); err != nil {
			return nil, fmt.Errorf("%w: reading bucket %d records", ErrTruncatedData, lod)
		}
		f.Buckets[lod] = records
	}

	return f, nil
}

// ParseFile parses a patch file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patch file: %w", err)
	}
	return Parse(data)
}

// Write encodes the file to w in the current version.
func (f *File) Write(w io.Writer) error {
	if _, err := w.Write([]byte(Magic)); err != nil {
		return fmt.Errorf("writing magic: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(Version)); err != nil {
		return fmt.Errorf("writing version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, &f.Params); err != nil {
		return fmt.Errorf("writing params: %w", err)
	}

	var counts [NumBuckets]uint32
	for lod, b := range f.Buckets {
		counts[lod] = uint32(len(b))
	}
	if err := binary.Write(w, binary.LittleEndian, &counts); err != nil {
		return fmt.Errorf("writing bucket counts: %w", err)
	}

	for lod, b := range f.Buckets {
		if len(b) == 0 {
			continue
		}
		if err := binary.Write(w, binary.LittleEndian, b); err != nil {
			return fmt.Errorf("writing bucket %d records: %w", lod, err)
		}
	}
	return nil
}

// WriteFile writes the file to disk.
func (f *File) WriteFile(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating patch file: %w", err)
	}
	if err := f.Write(out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing patch file: %w", err)
	}
	return nil
}
