// Package pathindex persists key-path to node-offset rows in a bbolt
// database, so repeated lookups against the same hive image skip the tree
// walk entirely.
package pathindex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"go.etcd.io/bbolt"

	"github.com/hivewalk/hivewalk/hive"
	"github.com/hivewalk/hivewalk/pkg/types"
)

var (
	bucketPaths = []byte("paths")
	bucketMeta  = []byte("meta")
)

// metaLastModified keys the hive header stamp recorded at build time.
var metaLastModified = []byte("last_modified")

// Index is a handle over a built path database.
type Index struct {
	db *bbolt.DB
}

// Build walks every key reachable from the root of h and writes one
// normalized-path row per key into the database at dbPath, dropping any
// rows a previous build left there. The hive's header stamp is recorded
// alongside so callers can tell a stale index from a fresh one. Sibling
// names that collide under ASCII folding keep the later sibling, matching
// which key a folded lookup against the hive itself would settle on.
func Build(dbPath string, h *hive.Hive) (*Index, error) {
	db, err := bbolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("pathindex: open db: %w", err)
	}
	root, err := h.Root()
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketPaths, bucketMeta} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return fmt.Errorf("pathindex: drop bucket %q: %w", name, err)
			}
		}
		paths, err := tx.CreateBucket(bucketPaths)
		if err != nil {
			return fmt.Errorf("pathindex: create bucket %q: %w", bucketPaths, err)
		}
		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return fmt.Errorf("pathindex: create bucket %q: %w", bucketMeta, err)
		}

		// Pre-order delivery means the ancestors of a key at depth d are
		// exactly the last rows written for depths 0..d-1, so one segment
		// stack rebuilds every path without touching parent pointers.
		segs := make([]string, 0, 16)
		walkErr := h.Walk(root, func(n types.NodeID, depth int) error {
			if depth == 0 {
				segs = segs[:0]
			} else {
				name, err := h.NodeNameDecoded(n)
				if err != nil {
					return err
				}
				segs = append(segs[:depth-1], foldASCII(name))
			}
			var row [4]byte
			binary.LittleEndian.PutUint32(row[:], uint32(n))
			return paths.Put([]byte(rootedJoin(segs)), row[:])
		})
		if walkErr != nil {
			return walkErr
		}

		var stamp [8]byte
		binary.LittleEndian.PutUint64(stamp[:], uint64(h.Info().LastModified))
		if err := meta.Put(metaLastModified, stamp[:]); err != nil {
			return fmt.Errorf("pathindex: record stamp: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Open opens an existing database built by Build, read-only. A file that
// was never a path index fails here rather than on first Get.
func Open(dbPath string) (*Index, error) {
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("pathindex: open db: %w", err)
	}
	err = db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(bucketPaths) == nil || tx.Bucket(bucketMeta) == nil {
			return fmt.Errorf("pathindex: %s is not a path index", dbPath)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Index{db: db}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error { return ix.db.Close() }

// Get resolves a backslash path to the node offset recorded for it. Misses
// return a not-found error; the zero handle is never a valid row.
func (ix *Index) Get(path string) (types.NodeID, error) {
	var node types.NodeID
	err := ix.db.View(func(tx *bbolt.Tx) error {
		row := tx.Bucket(bucketPaths).Get([]byte(Normalize(path)))
		if row == nil {
			return &types.Error{
				Kind: types.ErrKindNotFound,
				Msg:  fmt.Sprintf("path %q not in index", path),
			}
		}
		if len(row) != 4 {
			return fmt.Errorf("pathindex: corrupt row for %q", path)
		}
		node = types.NodeID(binary.LittleEndian.Uint32(row))
		return nil
	})
	return node, err
}

// Count reports how many key paths the index holds.
func (ix *Index) Count() (int, error) {
	var n int
	err := ix.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketPaths).Stats().KeyN
		return nil
	})
	return n, err
}

// LastModified reports the hive header stamp recorded when the index was
// built, in raw FILETIME ticks.
func (ix *Index) LastModified() (int64, error) {
	var stamp int64
	err := ix.db.View(func(tx *bbolt.Tx) error {
		row := tx.Bucket(bucketMeta).Get(metaLastModified)
		if len(row) != 8 {
			return fmt.Errorf("pathindex: missing build stamp")
		}
		stamp = int64(binary.LittleEndian.Uint64(row))
		return nil
	})
	return stamp, err
}

// Normalize folds a user-supplied path into row-key form: empty segments
// dropped, ASCII case folded, segments joined by single backslashes and
// rooted at `\`. The root itself normalizes to `\`.
func Normalize(path string) string {
	parts := strings.Split(path, `\`)
	segs := parts[:0]
	for _, p := range parts {
		if p != "" {
			segs = append(segs, foldASCII(p))
		}
	}
	return rootedJoin(segs)
}

func rootedJoin(segs []string) string {
	return `\` + strings.Join(segs, `\`)
}

// foldASCII lowers A-Z only. Unicode folding would diverge from how the
// traversal engine compares raw key names.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
