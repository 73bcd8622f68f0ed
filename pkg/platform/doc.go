// SPDX-License-Identifier: MPL-2.0

// Package platform names the operating systems whose conventions differ for
// config locations and serial port options.
package platform
