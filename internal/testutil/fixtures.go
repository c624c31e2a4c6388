package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// FlatFixture is a root with its children under a single leaf list.
type FlatFixture struct {
	Data []byte
	Root uint32
	List uint32
	Kids []uint32 // children in list order
}

// FlatHive builds a root whose children sit under one leaf list of the given
// signature. Children are carved in slice order, so their handles come back
// in the same order the list stores them.
func FlatHive(sig string, names []string) FlatFixture {
	bins := 2 + (len(names)*0xB0)/(BinSize-BinHeader)
	im := NewImage(bins)
	rootBody, rootOff := im.NKCell(len("ROOT"))
	listBody, listOff := im.LeafCell(len(names))
	kids := make([]uint32, len(names))
	bodies := make([][]byte, len(names))
	for i, name := range names {
		bodies[i], kids[i] = im.NKCell(len(name))
	}

	k := ASCIIKey("ROOT", Invalid)
	k.Count, k.List = uint32(len(names)), listOff
	WriteNK(rootBody, k)
	WriteLeaf(listBody, sig, kids)
	for i, name := range names {
		WriteNK(bodies[i], ASCIIKey(name, rootOff))
	}
	return FlatFixture{Data: im.Finish(rootOff), Root: rootOff, List: listOff, Kids: kids}
}

// IndexFixture is a root whose subkey list is an ri record over lf buckets.
type IndexFixture struct {
	Data   []byte
	Root   uint32
	Blocks []uint32 // list cells in visit order, the ri first
	Kids   []uint32 // children in leaf order
}

// IndexHive builds a root whose subkey list is an ri record splitting the
// children across one lf list per bucket.
func IndexHive(buckets [][]string) IndexFixture {
	var total int
	for _, b := range buckets {
		total += len(b)
	}
	bins := 2 + (total*0xB0)/(BinSize-BinHeader)
	im := NewImage(bins)
	rootBody, rootOff := im.NKCell(len("ROOT"))
	riBody, riOff := im.IndexCell(len(buckets))
	blocks := []uint32{riOff}

	var kids []uint32
	leafOffs := make([]uint32, len(buckets))
	for i, bucket := range buckets {
		leafBody, leafOff := im.LeafCell(len(bucket))
		leafOffs[i] = leafOff
		blocks = append(blocks, leafOff)
		entries := make([]uint32, len(bucket))
		for j, name := range bucket {
			kidBody, kidOff := im.NKCell(len(name))
			WriteNK(kidBody, ASCIIKey(name, rootOff))
			entries[j] = kidOff
			kids = append(kids, kidOff)
		}
		WriteLeaf(leafBody, "lf", entries)
	}
	WriteIndex(riBody, leafOffs)

	k := ASCIIKey("ROOT", Invalid)
	k.Count, k.List = uint32(total), riOff
	WriteNK(rootBody, k)
	return IndexFixture{Data: im.Finish(rootOff), Root: rootOff, Blocks: blocks, Kids: kids}
}

// TreeFixture is the canonical two-level hive most tests walk:
//
//	ROOT
//	  Software      (lf)
//	    Classes
//	    Microsoft
//	  System
type TreeFixture struct {
	Data      []byte
	Root      uint32
	Software  uint32
	Classes   uint32
	Microsoft uint32
	System    uint32
}

// BuildTree assembles the canonical fixture.
func BuildTree() TreeFixture {
	im := NewImage(1)
	rootBody, root := im.NKCell(len("ROOT"))
	rootList, rootListOff := im.LeafCell(2)
	swBody, sw := im.NKCell(len("Software"))
	swList, swListOff := im.LeafCell(2)
	clBody, cl := im.NKCell(len("Classes"))
	msBody, ms := im.NKCell(len("Microsoft"))
	sysBody, sys := im.NKCell(len("System"))

	k := ASCIIKey("ROOT", Invalid)
	k.Count, k.List = 2, rootListOff
	WriteNK(rootBody, k)
	WriteLeaf(rootList, "lf", []uint32{sw, sys})

	k = ASCIIKey("Software", root)
	k.Count, k.List = 2, swListOff
	WriteNK(swBody, k)
	WriteLeaf(swList, "lh", []uint32{cl, ms})

	WriteNK(clBody, ASCIIKey("Classes", sw))
	WriteNK(msBody, ASCIIKey("Microsoft", sw))
	WriteNK(sysBody, ASCIIKey("System", root))

	return TreeFixture{
		Data:      im.Finish(root),
		Root:      root,
		Software:  sw,
		Classes:   cl,
		Microsoft: ms,
		System:    sys,
	}
}

// WriteHive drops a finished image into a temporary file and returns its
// path. The file is removed with the test.
func WriteHive(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.hive")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture hive: %v", err)
	}
	return path
}
