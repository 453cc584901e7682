package ports

// Hasher defines the interface for computing content hashes.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// ComputeFileHash hashes the content of the file at path.
	ComputeFileHash(path string) (uint64, error)

	// ComputeInputHash hashes a source stylesheet together with the stage
	// fingerprint it will be transformed with.
	ComputeInputHash(fingerprint, name string, content []byte) string
}
