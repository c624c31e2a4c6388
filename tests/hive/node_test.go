package hive_test

import (
	"errors"
	"testing"

	"github.com/hivewalk/hivewalk/internal/testutil"
	"github.com/hivewalk/hivewalk/pkg/types"
)

func TestNodeNameCompressed(t *testing.T) {
	// "Caf\xE9" is Windows-1252 for "Café".
	im := testutil.NewImage(1)
	body, root := im.NKCell(4)
	testutil.WriteNK(body, testutil.NKSpec{
		Flags:  testutil.CompName,
		Stamp:  testutil.SampleStamp,
		Parent: testutil.Invalid,
		Name:   []byte{'C', 'a', 'f', 0xE9},
	})
	h := openHive(t, im.Finish(root))

	raw, err := h.NodeName(id(root))
	if err != nil {
		t.Fatalf("NodeName: %v", err)
	}
	if raw != "Caf\xe9" {
		t.Fatalf("unexpected raw name: %q", raw)
	}
	decoded, err := h.NodeNameDecoded(id(root))
	if err != nil {
		t.Fatalf("NodeNameDecoded: %v", err)
	}
	if decoded != "Café" {
		t.Fatalf("unexpected decoded name: %q", decoded)
	}
}

func TestNodeNameUTF16(t *testing.T) {
	name := testutil.UTF16LE("Omega Ω")
	im := testutil.NewImage(1)
	body, root := im.NKCell(len(name))
	testutil.WriteNK(body, testutil.NKSpec{Stamp: testutil.SampleStamp, Parent: testutil.Invalid, Name: name})
	h := openHive(t, im.Finish(root))

	raw, err := h.NodeName(id(root))
	if err != nil {
		t.Fatalf("NodeName: %v", err)
	}
	if raw != string(name) {
		t.Fatalf("unexpected raw name: %q", raw)
	}
	decoded, err := h.NodeNameDecoded(id(root))
	if err != nil {
		t.Fatalf("NodeNameDecoded: %v", err)
	}
	if decoded != "Omega Ω" {
		t.Fatalf("unexpected decoded name: %q", decoded)
	}
}

func TestNodeStructLength(t *testing.T) {
	fx := testutil.BuildTree()
	h := openHive(t, fx.Data)

	got, err := h.NodeStructLength(id(fx.Root))
	if err != nil || got != 4+0x4C+len("ROOT") {
		t.Fatalf("struct length of root: %d, %v", got, err)
	}
	got, err = h.NodeStructLength(id(fx.Software))
	if err != nil || got != 4+0x4C+len("Software") {
		t.Fatalf("struct length of child: %d, %v", got, err)
	}
}

func TestNodeTimestamp(t *testing.T) {
	fx := testutil.BuildTree()
	h := openHive(t, fx.Data)

	ts, err := h.NodeTimestamp(id(fx.Root))
	if err != nil || ts != testutil.SampleStamp {
		t.Fatalf("NodeTimestamp: %d, %v", ts, err)
	}
}

// A zero stamp means the key was never written; it is not a fault.
func TestNodeTimestampZero(t *testing.T) {
	im := testutil.NewImage(1)
	body, root := im.NKCell(4)
	testutil.WriteNK(body, testutil.NKSpec{Flags: testutil.CompName, Parent: testutil.Invalid, Name: []byte("ROOT")})
	h := openHive(t, im.Finish(root))

	ts, err := h.NodeTimestamp(id(root))
	if err != nil || ts != 0 {
		t.Fatalf("zero stamp should pass through: %d, %v", ts, err)
	}
}

func TestNodeParent(t *testing.T) {
	fx := testutil.BuildTree()
	h := openHive(t, fx.Data)

	parent, err := h.NodeParent(id(fx.Microsoft))
	if err != nil || parent != id(fx.Software) {
		t.Fatalf("parent of grandchild: %v, %v", parent, err)
	}
	parent, err = h.NodeParent(id(fx.Software))
	if err != nil || parent != id(fx.Root) {
		t.Fatalf("parent of child: %v, %v", parent, err)
	}
	// The root stores no usable parent pointer.
	if _, err := h.NodeParent(id(fx.Root)); !errors.Is(err, types.ErrStructuralFault) {
		t.Fatalf("expected ErrStructuralFault for the root parent, got %v", err)
	}
}
