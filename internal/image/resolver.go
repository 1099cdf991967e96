// SPDX-License-Identifier: MPL-2.0

package image

import (
	"errors"
	"fmt"
	"os/user"
	"strings"

	"github.com/distribution/reference"
)

// AliasPrefix is the repository namespace under which dent stores the images
// it builds.
const AliasPrefix = "dent"

var (
	// ErrImageAndTag is returned when an explicit image alias and an
	// explicit tag are both configured. The two are mutually exclusive:
	// the tag only participates in alias composition, which an explicit
	// alias bypasses entirely.
	ErrImageAndTag = errors.New("an explicit image and an explicit tag are mutually exclusive")

	// ErrBaseImageRequired is returned when no explicit image alias is
	// configured and no base image is available to compose one from.
	ErrBaseImageRequired = errors.New("a base image is required to compose the image alias")
)

// KnownBaseImages is the fixed, ordered allow-list of base images the shipped
// provisioning script is known to support. Listing them is a side query only;
// lifecycle logic never consults this slice.
var KnownBaseImages = []string{
	"debian:10",
	"debian:11",
	"debian:12",
	"debian:13",
	"ubuntu:18.04",
	"ubuntu:20.04",
	"ubuntu:22.04",
	"ubuntu:24.04",
}

// ResolveOptions are the inputs to alias resolution.
type ResolveOptions struct {
	// Image is an explicit alias override, returned verbatim when set.
	Image string
	// Base is the base image the alias is composed from.
	Base string
	// Tag is the alias tag. Defaults to the invoking user's login name.
	Tag string
}

// ResolveAlias computes the canonical image alias.
//
// An explicit Image override wins and is returned unchanged. Otherwise the
// alias is composed as "dent/<base>:<tag>" with every colon in the base
// identifier replaced by a period, keeping the result a syntactically valid
// name under the engine's rules. The composed alias is validated with the
// reference grammar the registries themselves use, so a bad base or tag fails
// here as a configuration error rather than later as an engine error.
func ResolveAlias(opts ResolveOptions) (string, error) {
	if opts.Image != "" && opts.Tag != "" {
		return "", ErrImageAndTag
	}

	if opts.Image != "" {
		return opts.Image, nil
	}

	if opts.Base == "" {
		return "", ErrBaseImageRequired
	}

	tag := opts.Tag
	if tag == "" {
		u, err := user.Current()
		if err != nil {
			return "", fmt.Errorf("cannot determine the invoking user for the default tag: %w", err)
		}
		tag = u.Username
	}

	alias := fmt.Sprintf("%s/%s:%s", AliasPrefix, strings.ReplaceAll(opts.Base, ":", "."), tag)

	if _, err := reference.ParseNormalizedNamed(alias); err != nil {
		return "", fmt.Errorf("composed image alias %q is not a valid reference: %w", alias, err)
	}

	return alias, nil
}
