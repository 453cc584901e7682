package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrTaskNotFound is returned when a requested task is not defined in the project.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrMissingDependency is returned when a watch task targets a build task that doesn't exist.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("invalid task name")

	// ErrReservedTaskName is returned when a task uses a reserved name (e.g., "all").
	ErrReservedTaskName = zerr.New("task name 'all' is reserved")

	// ErrPresetAndStages is returned when a build task declares both a preset and explicit stages.
	ErrPresetAndStages = zerr.New("preset and stages are mutually exclusive")

	// ErrUnknownPreset is returned when a build task references an undefined preset.
	ErrUnknownPreset = zerr.New("unknown preset")

	// ErrUnknownOutputMode is returned when --output-mode names no renderer.
	ErrUnknownOutputMode = zerr.New("unknown output mode")

	// ErrUnknownStage is returned when a stage identifier has no registered implementation.
	ErrUnknownStage = zerr.New("unknown stage")

	// ErrInvalidStageOptions is returned when a stage option has the wrong type.
	ErrInvalidStageOptions = zerr.New("invalid stage options")

	// ErrMissingInputs is returned when a build task declares no input globs.
	ErrMissingInputs = zerr.New("build task has no inputs")

	// ErrMissingOutput is returned when a build task declares no output directory.
	ErrMissingOutput = zerr.New("build task has no output directory")

	// ErrMissingWatchGlobs is returned when a watch task declares no globs.
	ErrMissingWatchGlobs = zerr.New("watch task has no globs")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrSourceReadFailed is returned when source stylesheets cannot be globbed or read.
	ErrSourceReadFailed = zerr.New("failed to read source stylesheet")

	// ErrNoSourceFiles is returned when the input globs match no files at all.
	ErrNoSourceFiles = zerr.New("no source stylesheets matched")

	// ErrTransformFailed is returned when a stage rejects its input.
	ErrTransformFailed = zerr.New("stylesheet transform failed")

	// ErrOutputWriteFailed is returned when an output stylesheet cannot be written.
	ErrOutputWriteFailed = zerr.New("failed to write output stylesheet")

	// ErrBuildExecutionFailed is returned when a direct build invocation fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start watcher")

	// ErrStoreCreateFailed is returned when the build info store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create build info store directory")

	// ErrStoreReadFailed is returned when the build info cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read build info")

	// ErrStoreUnmarshalFailed is returned when the build info cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal build info")

	// ErrStoreMarshalFailed is returned when the build info cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal build info")

	// ErrStoreWriteFailed is returned when the build info cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write build info")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrDuplicateToken is returned when a token category defines the same key twice.
	ErrDuplicateToken = zerr.New("duplicate design token")

	// ErrTokenNotFound is returned by the CLI when a requested token is not defined.
	ErrTokenNotFound = zerr.New("design token not defined")

	// ErrUnknownTokenCategory is returned when a token category does not exist.
	ErrUnknownTokenCategory = zerr.New("unknown token category")

	// ErrThemeReadFailed is returned when a token file cannot be read.
	ErrThemeReadFailed = zerr.New("failed to read token file")

	// ErrThemeParseFailed is returned when a token file cannot be parsed.
	ErrThemeParseFailed = zerr.New("failed to parse token file")

	// ErrUnknownFormat is returned when an export format is not supported.
	ErrUnknownFormat = zerr.New("unknown export format")

	// ErrFailedToCleanOutput is returned when removing build outputs fails.
	ErrFailedToCleanOutput = zerr.New("failed to clean output")
)
