// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ManuGH/jfstream/internal/version"
)

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipSetup": "true"},
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(a.stdout, version.String())
			return err
		},
	}
}
