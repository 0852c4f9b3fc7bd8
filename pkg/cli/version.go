/*
Copyright © 2025 Rackpulse Authors
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/rackpulse/rackpulse/pkg/serializer"
)

// versionInfo is the version command's output shape.
type versionInfo struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			return serializer.NewStdoutWriter(outFormat).Serialize(ctx, versionInfo{
				Name:    name,
				Version: version,
				Commit:  commit,
				Date:    date,
			})
		},
	}
}
