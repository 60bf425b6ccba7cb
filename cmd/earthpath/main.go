// earthpath command line entry point
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"earthpath/pkg/log"
	"earthpath/pkg/profile"
)

var (
	flagLogLevel    string
	flagProfileFile string

	registry *profile.Registry
)

func main() {
	root := &cobra.Command{
		Use:   "earthpath",
		Short: "Toolpath and instruction generation for large-format earth printers",
		Long: `earthpath turns construction typologies (pods, walls, spiral shells)
into printer instructions for crane and gantry earth printers, checking
each job against the target printer's reach and height envelope.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagLogLevel != "" {
				log.SetDefaultLevel(log.ParseLevel(flagLogLevel))
			}

			registry = profile.NewRegistry()
			if flagProfileFile != "" {
				if err := registry.LoadOverlay(flagProfileFile); err != nil {
					return err
				}
			}
			registry.Seal()
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "",
		"log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagProfileFile, "profiles", "",
		"YAML file with printer profile overrides")

	root.AddCommand(
		newSliceCommand(),
		newCheckCommand(),
		newProfilesCommand(),
		newMaterialsCommand(),
		newBatchCommand(),
		newServeCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
