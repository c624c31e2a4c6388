package types

// ============================================================================
// Traversal Resource Ceilings
// ============================================================================
// These constants bound the work a single traversal may perform. They exist
// to stop corrupt or maliciously crafted hives from driving unbounded memory
// growth or runaway pointer chasing, and are deliberately far above anything
// a healthy hive produces.

const (
	// MaxSubkeys caps the declared subkey count of a single key, and also
	// the number of intermediate index blocks visited while enumerating one
	// key. Intermediate blocks are not bounded by the declared subkey count
	// (old hives legally contain more index nodes than leaf subkeys), so the
	// same ceiling governs both.
	MaxSubkeys = 15000

	// MaxIndexDepth caps nesting of "ri" index blocks during one
	// enumeration. The format uses a two-tier ri -> lf/lh shape in practice;
	// anything deeper than this is a crafted chain, not a registry.
	MaxIndexDepth = 32

	// MaxTreeDepth caps whole-tree walks. Windows imposes no hard limit on
	// key nesting, but real trees stay far below this.
	MaxTreeDepth = 512
)
