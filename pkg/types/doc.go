// SPDX-License-Identifier: MPL-2.0

// Package types holds small validated scalar types shared by the option helpers
// and the command line front-end.
package types
