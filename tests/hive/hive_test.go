package hive_test

import (
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/hivewalk/hivewalk/internal/testutil"
	"github.com/hivewalk/hivewalk/pkg/types"
)

func TestNewRejectsBadSignature(t *testing.T) {
	data := testutil.BuildTree().Data
	copy(data, "bad!")
	if _, err := hive.New(data); !errors.Is(err, types.ErrNotHive) {
		t.Fatalf("expected ErrNotHive, got %v", err)
	}
}

func TestOpenMapsFile(t *testing.T) {
	fx := testutil.BuildTree()
	path := filepath.Join(t.TempDir(), "SYSTEM")
	if err := os.WriteFile(path, fx.Data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h, err := hive.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer h.Close()

	root, err := h.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	name, err := h.NodeName(root)
	if err != nil || name != "ROOT" {
		t.Fatalf("NodeName: %q, %v", name, err)
	}
}

func TestOpenMissingFile(t *testing.T) {
	_, err := hive.Open(filepath.Join(t.TempDir(), "no-such-hive"))
	var te *types.Error
	if !errors.As(err, &te) || te.Kind != types.ErrKindIO {
		t.Fatalf("expected an i/o error, got %v", err)
	}
}

func TestInfoReportsHeader(t *testing.T) {
	fx := testutil.BuildTree()
	h := openHive(t, fx.Data)

	info := h.Info()
	if info.PrimarySequence != 1 || info.SecondarySequence != 1 {
		t.Fatalf("unexpected sequences: %d, %d", info.PrimarySequence, info.SecondarySequence)
	}
	if info.MajorVersion != 1 || info.MinorVersion != 5 {
		t.Fatalf("unexpected version: %d.%d", info.MajorVersion, info.MinorVersion)
	}
	if info.RootCellOffset != fx.Root+testutil.DataBase {
		t.Fatalf("unexpected root cell offset: %#x", info.RootCellOffset)
	}
	if info.HiveBinsDataSize != testutil.BinSize {
		t.Fatalf("unexpected bins data size: %#x", info.HiveBinsDataSize)
	}
	if info.Length != len(fx.Data) {
		t.Fatalf("unexpected length: %d", info.Length)
	}
	if info.LastModified != testutil.SampleStamp {
		t.Fatalf("unexpected stamp: %d", info.LastModified)
	}
	want := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)
	if !info.LastModifiedTime.Equal(want) {
		t.Fatalf("unexpected stamp time: %v", info.LastModifiedTime)
	}
}

func TestRootHandle(t *testing.T) {
	fx := testutil.BuildTree()
	h := openHive(t, fx.Data)

	root, err := h.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if root != id(fx.Root) {
		t.Fatalf("unexpected root handle: %v", root)
	}
}

func TestRootOffsetNotABlock(t *testing.T) {
	fx := testutil.BuildTree()
	binary.LittleEndian.PutUint32(fx.Data[0x24:], 0x02) // inside the bin header
	h := openHive(t, fx.Data)

	if _, err := h.Root(); !errors.Is(err, types.ErrNoRootKey) {
		t.Fatalf("expected ErrNoRootKey, got %v", err)
	}
}

// The root pointer is only checked for block validity, so a root that is not
// an nk record still opens and fails on first use.
func TestRootTypeUncheckedUntilUse(t *testing.T) {
	im := testutil.NewImage(1)
	rootBody, root := im.NKCell(4)
	listBody, list := im.LeafCell(1)
	kidBody, kid := im.NKCell(4)
	k := testutil.ASCIIKey("ROOT", testutil.Invalid)
	k.Count, k.List = 1, list
	testutil.WriteNK(rootBody, k)
	testutil.WriteLeaf(listBody, "lf", []uint32{kid})
	testutil.WriteNK(kidBody, testutil.ASCIIKey("Tail", root))
	data := im.Finish(list) // root pointer aimed at the lf cell

	h := openHive(t, data)
	handle, err := h.Root()
	if err != nil {
		t.Fatalf("Root: %v", err)
	}
	if handle != id(list) {
		t.Fatalf("unexpected root handle: %v", handle)
	}
	if _, err := h.NodeName(handle); !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestLastModified(t *testing.T) {
	fx := testutil.BuildTree()
	h := openHive(t, fx.Data)

	ts, err := h.LastModified()
	if err != nil || ts != testutil.SampleStamp {
		t.Fatalf("LastModified: %d, %v", ts, err)
	}
}

func TestLastModifiedNegative(t *testing.T) {
	fx := testutil.BuildTree()
	binary.LittleEndian.PutUint64(fx.Data[0x0C:], ^uint64(0)) // -1 ticks
	h := openHive(t, fx.Data)

	if _, err := h.LastModified(); !errors.Is(err, types.ErrInvalidTimestamp) {
		t.Fatalf("expected ErrInvalidTimestamp, got %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	h, err := hive.New(testutil.BuildTree().Data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
