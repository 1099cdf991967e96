// SPDX-License-Identifier: MPL-2.0

package image

import (
	"bytes"
	"fmt"
	"text/template"
)

const (
	// ProvisionScriptName is the provisioning script file inside the
	// build context.
	ProvisionScriptName = "provision.sh"
	// ManifestName is the build manifest file inside the build context.
	// Named so that both docker and podman pick it up without a -f flag.
	ManifestName = "Dockerfile"
)

// provisionScriptTemplate creates the user account inside the image. The
// variable set is fixed: uid, username, gecos.
const provisionScriptTemplate = `#!/bin/sh
set -eu

export DEBIAN_FRONTEND=noninteractive

apt-get update
apt-get install -y --no-install-recommends \
    bash-completion \
    locales \
    sudo
rm -rf /var/lib/apt/lists/*

useradd \
    --uid {{.UID}} \
    --comment '{{.Gecos}}' \
    --create-home \
    --shell /bin/bash \
    {{.Username}}

echo '{{.Username}} ALL=(ALL) NOPASSWD: ALL' > /etc/sudoers.d/{{.Username}}
chmod 0440 /etc/sudoers.d/{{.Username}}
`

// manifestTemplate is the build manifest. The variable set is fixed: base
// image, username.
const manifestTemplate = `FROM {{.BaseImage}}

COPY provision.sh /usr/local/lib/dent/provision.sh
RUN /usr/local/lib/dent/provision.sh

USER {{.Username}}
WORKDIR /home/{{.Username}}
`

// scriptData is the variable set of the provisioning-script template.
type scriptData struct {
	UID      string
	Username string
	Gecos    string
}

// manifestData is the variable set of the build-manifest template.
type manifestData struct {
	BaseImage string
	Username  string
}

// render substitutes a fixed variable set into a template string. The
// variable sets are enumerated per template; a missing key is a programming
// error and fails loudly.
func render(name, tmpl string, data any) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse %s template: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", name, err)
	}
	return buf.String(), nil
}
