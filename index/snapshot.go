package index

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

const snapshotMagic = "IMGRIDX1"

// ErrBadSnapshot is returned when a snapshot header cannot be parsed.
var ErrBadSnapshot = errors.New("index: bad snapshot")

// Save writes a zstd-compressed snapshot of idx: magic, kind, then the
// index's MarshalBinary payload.
func Save(w io.Writer, kind Kind, idx Index) error {
	payload, err := idx.MarshalBinary()
	if err != nil {
		return fmt.Errorf("index: marshal: %w", err)
	}
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	header := make([]byte, 0, len(snapshotMagic)+2+len(kind))
	header = append(header, snapshotMagic...)
	header = binary.LittleEndian.AppendUint16(header, uint16(len(kind)))
	header = append(header, kind...)
	if _, err := enc.Write(header); err != nil {
		_ = enc.Close()
		return err
	}
	if _, err := enc.Write(payload); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}

// Load reads a snapshot written by Save and rebuilds the index it describes.
func Load(r io.Reader) (Kind, Index, error) {
	dec, err := zstd.NewReader(bufio.NewReader(r))
	if err != nil {
		return "", nil, err
	}
	defer dec.Close()

	magic := make([]byte, len(snapshotMagic)+2)
	if _, err := io.ReadFull(dec, magic); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if string(magic[:len(snapshotMagic)]) != snapshotMagic {
		return "", nil, fmt.Errorf("%w: magic mismatch", ErrBadSnapshot)
	}
	name := make([]byte, binary.LittleEndian.Uint16(magic[len(snapshotMagic):]))
	if _, err := io.ReadFull(dec, name); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	kind := Kind(name)
	idx, err := New(kind)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	payload, err := io.ReadAll(dec)
	if err != nil {
		return "", nil, err
	}
	if err := idx.UnmarshalBinary(payload); err != nil {
		return "", nil, err
	}
	return kind, idx, nil
}
