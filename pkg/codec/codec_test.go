package codec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []struct {
		name string
		x, y float64
	}{
		{"Alpha", 0, 0},
		{"Beta", 3, 4},
		{"Gamma", 6, 8},
	} {
		if _, err := g.AddNode(n.name, n.x, n.y); err != nil {
			t.Fatalf("AddNode(%q): %v", n.name, err)
		}
	}
	if err := g.AddBidirectional(0, 1, 5); err != nil {
		t.Fatalf("AddBidirectional: %v", err)
	}
	if err := g.AddEdge(1, 2, 5); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}
	return g
}

func TestRoundTrip(t *testing.T) {
	g := buildGraph(t)

	// Tombstones must survive the trip too.
	if !g.RemoveEdge(1, 0) {
		t.Fatal("RemoveEdge(1, 0) = false")
	}
	if !g.RemoveNode(2) {
		t.Fatal("RemoveNode(2) = false")
	}

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(got.Export(), g.Export()) {
		t.Errorf("snapshot mismatch after round trip:\n got %+v\nwant %+v", got.Export(), g.Export())
	}
}

func TestDecodeBadMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, buildGraph(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()
	data[0] = 'X'

	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrFormat) {
		t.Errorf("Decode with bad magic: err = %v, want ErrFormat", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, buildGraph(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()

	for _, n := range []int{0, 4, 12, 100, len(data) - 1} {
		if _, err := Decode(bytes.NewReader(data[:n])); !errors.Is(err, ErrFormat) {
			t.Errorf("Decode of %d-byte prefix: err = %v, want ErrFormat", n, err)
		}
	}
}

func TestDecodeForgedEdgeCount(t *testing.T) {
	g := graph.New()
	if _, err := g.AddNode("Lonely", 0, 0); err != nil {
		t.Fatalf("AddNode: %v", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	data := buf.Bytes()

	// Claim the maximum possible edge count for node 0. No records back it
	// up, so Decode must fail on the missing data rather than allocate for
	// the claim.
	off := len(magic) + 4 + binary.Size(nodeRecord{})
	binary.LittleEndian.PutUint32(data[off:], math.MaxInt32)

	if _, err := Decode(bytes.NewReader(data)); !errors.Is(err, ErrFormat) {
		t.Errorf("Decode with forged edge count: err = %v, want ErrFormat", err)
	}
}

func TestDecodeExceedsCapacity(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, buildGraph(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	_, err := Decode(&buf, graph.WithMaxNodes(2))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("Decode into 2-node graph: err = %v, want ErrTooLarge", err)
	}
}

func TestEncodeTooLarge(t *testing.T) {
	g := graph.New(graph.WithMaxNodes(MaxNodes + 1))
	for i := 0; i <= MaxNodes; i++ {
		if _, err := g.AddNode("n", 0, 0); err != nil {
			t.Fatalf("AddNode %d: %v", i, err)
		}
	}

	if err := Encode(&bytes.Buffer{}, g); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Encode of %d nodes: err = %v, want ErrTooLarge", MaxNodes+1, err)
	}
}

func TestSaveLoad(t *testing.T) {
	g := buildGraph(t)
	path := filepath.Join(t.TempDir(), "map.rcg")

	if err := Save(g, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.Export(), g.Export()) {
		t.Errorf("snapshot mismatch after save/load")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.rcg")); err == nil {
		t.Error("Load of missing file: err = nil")
	}
}

func TestSampleCityRoundTrip(t *testing.T) {
	g := graph.NewSampleCity()

	var buf bytes.Buffer
	if err := Encode(&buf, g); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// Weights are stored as float32, so compare them with a tolerance
	// instead of exactly.
	want := g.Export()
	have := got.Export()
	if !reflect.DeepEqual(have.Nodes, want.Nodes) {
		t.Fatalf("node table mismatch")
	}
	for i := range want.Adj {
		if len(have.Adj[i]) != len(want.Adj[i]) {
			t.Fatalf("node %d: %d edges, want %d", i, len(have.Adj[i]), len(want.Adj[i]))
		}
		for j, w := range want.Adj[i] {
			h := have.Adj[i][j]
			if h.From != w.From || h.To != w.To || h.Active != w.Active {
				t.Errorf("node %d edge %d: got %+v, want %+v", i, j, h, w)
			}
			if diff := h.Weight - w.Weight; diff > 1e-3 || diff < -1e-3 {
				t.Errorf("edge %d->%d: weight %v, want %v", w.From, w.To, h.Weight, w.Weight)
			}
		}
	}
}
