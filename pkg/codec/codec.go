// Package codec reads and writes the Wayfinder binary map format.
//
// # Layout
//
// All integers and floats are little-endian and fixed-width:
//
//	magic      8 bytes, "RCGRAPH1"
//	nodeCount  int32
//	nodes      nodeCount records: int32 id, 128-byte NUL-padded name,
//	           float32 x, float32 y, 1-byte active flag
//	edgeCounts [1000]int32, one per node slot of the full table
//	edges      per node, edgeCounts[i] records: int32 from, int32 to,
//	           float32 weight, 1-byte active flag
//
// The format captures a [graph.Snapshot] exactly, including inactive nodes
// and edge tombstones, so save followed by load reproduces the store
// byte-for-byte.
//
// # Failure behavior
//
// Decode fails closed. A wrong magic, a short read, an id out of step with
// its slot, or a node count beyond the slot table or the destination
// capacity all yield [ErrFormat] (or [ErrTooLarge]) and no graph; decoding
// never mutates caller state, so a failed load cannot corrupt a map already
// in use.
package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

// MaxNodes is the slot count of the on-disk edge-count table. Graphs with
// more allocated slots cannot be written in this format.
const MaxNodes = 1000

// magic identifies the format and its first revision.
var magic = [8]byte{'R', 'C', 'G', 'R', 'A', 'P', 'H', '1'}

var (
	// ErrFormat is returned by Decode for any malformed input: bad magic,
	// truncated data, or records violating the store invariants.
	ErrFormat = errors.New("codec: malformed map data")

	// ErrTooLarge is returned when a graph does not fit the format's slot
	// table, or a decoded node count exceeds the destination capacity.
	ErrTooLarge = errors.New("codec: node count exceeds capacity")
)

// nodeRecord is the wire form of one node slot.
type nodeRecord struct {
	ID     int32
	Name   [graph.MaxNameLen]byte
	X, Y   float32
	Active uint8
}

// edgeRecord is the wire form of one adjacency entry.
type edgeRecord struct {
	From   int32
	To     int32
	Weight float32
	Active uint8
}

// Encode writes g to w in the binary map format.
func Encode(w io.Writer, g *graph.Graph) error {
	snap := g.Export()
	if len(snap.Nodes) > MaxNodes {
		return ErrTooLarge
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic[:]); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(len(snap.Nodes))); err != nil {
		return err
	}

	for _, n := range snap.Nodes {
		var rec nodeRecord
		rec.ID = int32(n.ID)
		copy(rec.Name[:graph.MaxNameLen-1], n.Name)
		rec.X = float32(n.Pos.X())
		rec.Y = float32(n.Pos.Y())
		if n.Active {
			rec.Active = 1
		}
		if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
			return err
		}
	}

	counts := make([]int32, MaxNodes)
	for i, edges := range snap.Adj {
		counts[i] = int32(len(edges))
	}
	if err := binary.Write(bw, binary.LittleEndian, counts); err != nil {
		return err
	}

	for _, edges := range snap.Adj {
		for _, e := range edges {
			rec := edgeRecord{
				From:   int32(e.From),
				To:     int32(e.To),
				Weight: float32(e.Weight),
			}
			if e.Active {
				rec.Active = 1
			}
			if err := binary.Write(bw, binary.LittleEndian, rec); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// Decode reads a graph from r. The options are forwarded to the constructed
// graph; a node count beyond the configured capacity fails with
// [ErrTooLarge].
func Decode(r io.Reader, opts ...graph.Option) (*graph.Graph, error) {
	br := bufio.NewReader(r)

	var header [8]byte
	if _, err := io.ReadFull(br, header[:]); err != nil {
		return nil, fmt.Errorf("%w: missing header", ErrFormat)
	}
	if header != magic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrFormat, header[:])
	}

	var count int32
	if err := binary.Read(br, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: missing node count", ErrFormat)
	}
	if count < 0 || count > MaxNodes {
		return nil, fmt.Errorf("%w: %d nodes", ErrTooLarge, count)
	}

	snap := graph.Snapshot{
		Nodes: make([]graph.Node, count),
		Adj:   make([][]graph.Edge, count),
	}

	for i := range snap.Nodes {
		var rec nodeRecord
		if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
			return nil, fmt.Errorf("%w: node record %d", ErrFormat, i)
		}
		if int(rec.ID) != i {
			return nil, fmt.Errorf("%w: node record %d has id %d", ErrFormat, i, rec.ID)
		}
		name := rec.Name[:]
		if nul := bytes.IndexByte(name, 0); nul >= 0 {
			name = name[:nul]
		}
		snap.Nodes[i] = graph.Node{
			ID:     i,
			Name:   string(name),
			Pos:    orb.Point{float64(rec.X), float64(rec.Y)},
			Active: rec.Active != 0,
		}
	}

	counts := make([]int32, MaxNodes)
	if err := binary.Read(br, binary.LittleEndian, counts); err != nil {
		return nil, fmt.Errorf("%w: edge-count table", ErrFormat)
	}
	for i := int32(0); i < count; i++ {
		if counts[i] < 0 {
			return nil, fmt.Errorf("%w: negative edge count for node %d", ErrFormat, i)
		}
	}

	// The count table claims sizes the rest of the input may not back up,
	// so adjacency slices grow per record instead of being sized upfront.
	const preallocEdges = 256

	for i := 0; i < int(count); i++ {
		n := int(counts[i])
		if n == 0 {
			continue
		}
		edges := make([]graph.Edge, 0, min(n, preallocEdges))
		for j := 0; j < n; j++ {
			var rec edgeRecord
			if err := binary.Read(br, binary.LittleEndian, &rec); err != nil {
				return nil, fmt.Errorf("%w: edge record %d/%d", ErrFormat, i, j)
			}
			if int(rec.From) != i || rec.To < 0 || rec.To >= count {
				return nil, fmt.Errorf("%w: edge %d->%d owned by node %d", ErrFormat, rec.From, rec.To, i)
			}
			edges = append(edges, graph.Edge{
				From:   i,
				To:     int(rec.To),
				Weight: float64(rec.Weight),
				Active: rec.Active != 0,
			})
		}
		snap.Adj[i] = edges
	}

	g, err := graph.FromSnapshot(snap, opts...)
	if err != nil {
		if errors.Is(err, graph.ErrCapacity) {
			return nil, fmt.Errorf("%w: %d nodes", ErrTooLarge, count)
		}
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return g, nil
}

// Save writes g to the named file, replacing it atomically: the data is
// written to a temporary sibling first and renamed into place, so a crash
// mid-write never leaves a truncated map behind.
func Save(g *graph.Graph, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".wayfinder-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Load reads a graph from the named file.
func Load(path string, opts ...graph.Option) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, opts...)
}
