package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./doclabel.db"

	// DefaultDatasetPageSize is how many documents the dataset page shows at once
	DefaultDatasetPageSize = 5

	// DefaultUploadMaxBytes caps the size of an uploaded dataset file (32 MiB)
	DefaultUploadMaxBytes = 32 << 20
)
