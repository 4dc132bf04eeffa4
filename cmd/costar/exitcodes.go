package main

// Exit codes shared by every command.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable or invalid config)
	ExitDataError   = 3 // Data error (unknown or unreachable actor, empty graph)
	ExitCacheStale  = 6 // Relation cache is missing or older than the input files
)
