// Package app wires the application together: it builds the logger, loads
// the restoration profile, constructs the engine, and runs the restoration.
package app
