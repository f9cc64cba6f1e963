package main

// Exit codes.
const (
	ExitSuccess    = 0 // Success
	ExitError      = 1 // General error (invalid arguments, runtime failure)
	ExitInputError = 2 // Input selection error (bad folder, bad year range)
	ExitDataError  = 3 // Data error (mixed file types, no supported files, malformed input)
)
