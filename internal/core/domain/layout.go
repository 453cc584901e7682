package domain

import "path/filepath"

const (
	// LumenDirName is the name of the internal workspace directory.
	LumenDirName = ".lumen"

	// StoreDirName is the name of the build info store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = "lumen.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultStorePath returns the default path for the build info store.
// It joins .lumen and store.
func DefaultStorePath() string {
	return filepath.Join(LumenDirName, StoreDirName)
}
