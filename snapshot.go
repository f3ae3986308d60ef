package hashgrid

import (
	"bufio"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/hashgrid/blobstore"
	"github.com/hupe1980/hashgrid/codec"
	"github.com/hupe1980/hashgrid/geom"
	"github.com/hupe1980/hashgrid/internal/compress"
	"github.com/hupe1980/hashgrid/internal/conv"
)

// Snapshot layout:
//
//	[Magic "HGRD"][Version uint16][CodecNameLen uint8][CodecName]
//	[Compression uint8][Block]
//
// Block is an internal/compress block holding the codec-encoded body.
const (
	snapshotMagic   = "HGRD"
	snapshotVersion = uint16(1)
)

type snapshotEntry[ID comparable] struct {
	ID  ID         `json:"id" msgpack:"id"`
	Box [4]float64 `json:"box" msgpack:"box"`
}

type snapshotBody[ID comparable] struct {
	CellSize float64             `json:"cell_size" msgpack:"cell_size"`
	Entries  []snapshotEntry[ID] `json:"entries" msgpack:"entries"`
}

// Save writes the cell size and every registered box to w.
//
// Entries are written in the order ids first appear when scanning occupied
// cells row-major, so equal grids produce equal snapshots. Loading rebuilds
// the cells by inserting in that order; occupant order within a cell may
// therefore differ from the saved grid.
func (g *Grid[ID]) Save(w io.Writer) error {
	_, err := g.save(w)
	return err
}

func (g *Grid[ID]) save(w io.Writer) (int, error) {
	c := g.opts.codec
	if c == nil {
		c = codec.Default
	}
	if !g.opts.compression.Valid() {
		return 0, fmt.Errorf("invalid compression %s", g.opts.compression)
	}

	payload, err := c.Marshal(g.snapshotBody())
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}
	block, err := compress.Encode(payload, g.opts.compression)
	if err != nil {
		return 0, fmt.Errorf("compress snapshot: %w", err)
	}

	nameLen, err := conv.IntToUint8(len(c.Name()))
	if err != nil {
		return 0, fmt.Errorf("codec name: %w", err)
	}

	buf := make([]byte, 0, len(snapshotMagic)+4+int(nameLen)+len(block))
	buf = append(buf, snapshotMagic...)
	buf = binary.LittleEndian.AppendUint16(buf, snapshotVersion)
	buf = append(buf, nameLen)
	buf = append(buf, c.Name()...)
	buf = append(buf, byte(g.opts.compression))
	buf = append(buf, block...)

	return w.Write(buf)
}

func (g *Grid[ID]) snapshotBody() snapshotBody[ID] {
	body := snapshotBody[ID]{
		CellSize: g.cellSize,
		Entries:  make([]snapshotEntry[ID], 0, len(g.boxes)),
	}
	written := make(map[ID]struct{}, len(g.boxes))
	for _, k := range g.OccupiedCells(nil) {
		for _, id := range g.cells[k] {
			if _, ok := written[id]; ok {
				continue
			}
			written[id] = struct{}{}
			b := g.boxes[id]
			body.Entries = append(body.Entries, snapshotEntry[ID]{
				ID:  id,
				Box: [4]float64{b.Min.X, b.Min.Y, b.Max.X, b.Max.Y},
			})
		}
	}
	return body
}

// Load reads a snapshot written by Save into a new grid configured with
// optFns.
//
// The payload is decoded with the built-in codec named in the header. A
// codec passed with WithCodec is used instead when its Name matches.
func Load[ID comparable](r io.Reader, optFns ...Option) (*Grid[ID], error) {
	br := bufio.NewReader(r)

	var magic [4]byte
	if _, err := io.ReadFull(br, magic[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadMagic, err)
	}
	if string(magic[:]) != snapshotMagic {
		return nil, ErrBadMagic
	}

	var hdr [3]byte
	if _, err := io.ReadFull(br, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrCorruptSnapshot, err)
	}
	if v := binary.LittleEndian.Uint16(hdr[:2]); v != snapshotVersion {
		return nil, &ErrUnsupportedVersion{Expected: snapshotVersion, Actual: v}
	}

	name := make([]byte, hdr[2])
	if _, err := io.ReadFull(br, name); err != nil {
		return nil, fmt.Errorf("%w: codec name: %w", ErrCorruptSnapshot, err)
	}
	ct, err := br.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: compression: %w", ErrCorruptSnapshot, err)
	}
	compression := Compression(ct)
	if !compression.Valid() {
		return nil, fmt.Errorf("%w: unknown compression %s", ErrCorruptSnapshot, compression)
	}

	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	c, ok := codec.ByName(string(name))
	if opts.codec != nil && opts.codec.Name() == string(name) {
		c, ok = opts.codec, true
	}
	if !ok {
		return nil, &ErrUnknownCodec{Name: string(name)}
	}

	block, err := io.ReadAll(io.LimitReader(br, compress.MaxBlockSize+8))
	if err != nil {
		return nil, err
	}
	payload, err := compress.Decode(block, compression)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}

	var body snapshotBody[ID]
	if err := c.Unmarshal(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrCorruptSnapshot, err)
	}

	g, err := New[ID](body.CellSize, optFns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptSnapshot, err)
	}
	for i, e := range body.Entries {
		box := geom.Box(e.Box[0], e.Box[1], e.Box[2], e.Box[3])
		if _, err := g.insert(e.ID, box); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrCorruptSnapshot, i, err)
		}
	}
	return g, nil
}

// SaveTo writes a snapshot to store under name.
func (g *Grid[ID]) SaveTo(ctx context.Context, store blobstore.Store, name string) error {
	var buf bytes.Buffer
	n, err := g.save(&buf)
	if err == nil {
		err = store.Put(ctx, name, buf.Bytes())
	}
	g.logger.LogSnapshot(ctx, name, len(g.boxes), n, err)
	return err
}

// LoadFrom reads the snapshot stored under name. A missing snapshot yields
// an error matching blobstore.ErrNotFound.
func LoadFrom[ID comparable](ctx context.Context, store blobstore.Store, name string, optFns ...Option) (*Grid[ID], error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %q: %w", name, err)
	}
	g, err := Load[ID](bytes.NewReader(data), optFns...)
	if err != nil {
		logger := restoreLogger(optFns)
		logger.LogRestore(ctx, name, 0, err)
		return nil, err
	}
	g.logger.LogRestore(ctx, name, g.Len(), nil)
	return g, nil
}

func restoreLogger(optFns []Option) *Logger {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.logger == nil {
		return NoopLogger()
	}
	return opts.logger
}

// IsCorrupt reports whether err was caused by an unreadable snapshot.
func IsCorrupt(err error) bool {
	var v *ErrUnsupportedVersion
	var c *ErrUnknownCodec
	return errors.Is(err, ErrBadMagic) || errors.Is(err, ErrCorruptSnapshot) ||
		errors.As(err, &v) || errors.As(err, &c)
}
