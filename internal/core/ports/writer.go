package ports

// FileWriter writes build outputs.
//
//go:generate mockgen -source=writer.go -destination=mocks/mock_writer.go -package=mocks
type FileWriter interface {
	// EnsureDir creates dir and its parents.
	EnsureDir(dir string) error

	// WriteFile replaces the file at path with data. Readers never observe a
	// partially written file.
	WriteFile(path string, data []byte) error
}
