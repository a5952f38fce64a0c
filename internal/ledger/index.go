package ledger

// AssetLedger defines the interface for asset bookkeeping operations.
// Consumers should depend on this interface rather than the concrete *DB
// type to facilitate testing with mocks.
type AssetLedger interface {
	Record(a Asset) error
	Get(path string) (*Asset, error)
	List(contentType string) ([]Asset, error)
	Summary() ([]TypeSummary, error)
	Close() error
}

// Verify *DB satisfies AssetLedger at compile time.
var _ AssetLedger = (*DB)(nil)
