package ports

// TreeHasher hashes the content of a package directory.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type TreeHasher interface {
	// HashTree returns a stable content hash of every file under root, excluding the install marker.
	HashTree(root string) (string, error)
}
