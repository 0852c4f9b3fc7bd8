/*
Copyright © 2025 Rackpulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rackpulse/rackpulse/pkg/serializer"
)

// parseOutputFormat reads the format flag and validates it against the
// serializer's supported formats.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	raw := cmd.String("format")
	f := serializer.Format(raw)
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q (supported: %s)",
			raw, strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}
