package hive_test

import (
	"testing"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/hivewalk/hivewalk/internal/testutil"
	"github.com/hivewalk/hivewalk/pkg/types"
)

// id converts a stored-pointer offset into the public handle form.
func id(off uint32) types.NodeID {
	return types.NodeID(off + testutil.DataBase)
}

// openHive adopts a finished image and closes it with the test.
func openHive(t *testing.T, data []byte) *hive.Hive {
	t.Helper()
	h, err := hive.New(data)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = h.Close() })
	return h
}
