// SPDX-License-Identifier: MPL-2.0

// Package cmd is the argparseutils command line. Every subcommand declares the
// options of one helper through the shared options.Registry, prints the
// resolved values with their environment variable and source, and can build
// the helper's client on request.
package cmd
