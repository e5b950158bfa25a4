package main

// Exit codes.
const (
	ExitSuccess   = 0 // Success, and usage errors unless strict exit is on
	ExitError     = 1 // I/O or runtime failure
	ExitUsage     = 2 // Invalid arguments (always for malformed flags, strict mode for missing parameters)
	ExitDataError = 3 // Malformed catalog file
)
