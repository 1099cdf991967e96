// SPDX-License-Identifier: MPL-2.0

// Package image resolves dent image aliases and builds the backing image
// from a templated build context when the engine does not already have it.
package image
