// Package config holds the format-agnostic model of a restoration profile
// and the Loader interface format-specific loaders implement. Keeping the
// model free of HCL types lets the engine and tests construct profiles
// directly, without a parser in the loop.
package config
