// Subcommand implementations
//
// Copyright (C) 2026  Earthpath Authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"earthpath/pkg/compat"
	"earthpath/pkg/engine"
	"earthpath/pkg/geometry"
	"earthpath/pkg/material"
	"earthpath/pkg/server"
)

// shapeFlags binds the dimension flags shared by slice and check.
type shapeFlags struct {
	typology      string
	diameter      float64
	length        float64
	height        float64
	wallThickness float64
	pitch         float64
	printerID     string
}

func (f *shapeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.typology, "typology", "t", "single_pod",
		"shape typology ("+strings.Join(geometry.Typologies(), ", ")+")")
	cmd.Flags().Float64VarP(&f.diameter, "diameter", "d", 0, "diameter in meters (0 = typology default)")
	cmd.Flags().Float64VarP(&f.length, "length", "l", 0, "wall length in meters (0 = typology default)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "height in meters (0 = typology default)")
	cmd.Flags().Float64VarP(&f.wallThickness, "wall-thickness", "w", 0, "wall thickness in meters (0 = typology default)")
	cmd.Flags().Float64Var(&f.pitch, "pitch", 0, "spiral pitch in meters (0 = printer layer height)")
	cmd.Flags().StringVarP(&f.printerID, "printer", "p", "wasp_crane", "printer profile id")
}

func (f *shapeFlags) request() engine.Request {
	return engine.Request{
		Typology:       f.typology,
		DiameterM:      f.diameter,
		LengthM:        f.length,
		HeightM:        f.height,
		WallThicknessM: f.wallThickness,
		PitchM:         f.pitch,
		PrinterID:      f.printerID,
	}
}

func newSliceCommand() *cobra.Command {
	var (
		shape       shapeFlags
		mixName     string
		infill      bool
		infillEvery int
		layerHeight float64
		output      string
		showReport  bool
	)

	cmd := &cobra.Command{
		Use:   "slice",
		Short: "Generate printer instructions for a shape",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := shape.request()
			req.Material = mixName
			req.Infill = infill
			req.InfillInterval = infillEvery
			req.LayerHeightMM = layerHeight

			res, err := engine.New(registry).Generate(cmd.Context(), req)
			if err != nil {
				return err
			}

			if showReport {
				fmt.Fprint(cmd.ErrOrStderr(),
					compat.Render(res.Report, res.Descriptor, res.Profile))
				fmt.Fprintf(cmd.ErrOrStderr(),
					"Estimated print time: %s (%.1f kg of %s)\n",
					res.Estimate.Duration.Round(time.Second),
					res.Estimate.MaterialKg, res.Mix.Name)
			}

			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), res.GCode)
				return nil
			}
			if err := os.WriteFile(output, []byte(res.GCode), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d layers to %s\n", res.LayerCount, output)
			return nil
		},
	}

	shape.register(cmd)
	cmd.Flags().StringVarP(&mixName, "material", "m", material.DefaultName, "earth mix name")
	cmd.Flags().BoolVar(&infill, "infill", false, "add honeycomb infill on interval layers")
	cmd.Flags().IntVar(&infillEvery, "infill-every", 0, "infill layer interval (0 = default)")
	cmd.Flags().Float64Var(&layerHeight, "layer-height", 0, "layer height in mm (0 = printer default)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&showReport, "report", false, "print the compatibility report to stderr")

	return cmd
}

func newCheckCommand() *cobra.Command {
	var shape shapeFlags

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a shape against a printer envelope",
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, prof, _, err := engine.New(registry).Resolve(shape.request())
			if err != nil {
				return err
			}

			report := compat.Check(desc, prof)
			fmt.Fprint(cmd.OutOrStdout(), compat.Render(report, desc, prof))
			if !report.WithinEnvelope() {
				os.Exit(2)
			}
			return nil
		},
	}

	shape.register(cmd)
	return cmd
}

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List known printer profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, id := range registry.IDs() {
				p := registry.Lookup(id)
				fmt.Fprintf(w, "%s\n", id)
				fmt.Fprintf(w, "    %s (%s)\n", p.Name, p.Firmware)
				fmt.Fprintf(w, "    reach %gm, height %gm, nozzle %gmm, layer %gmm\n",
					p.ReachRadiusM, p.MaxHeightM, p.NozzleDiameterMM, p.DefaultLayerHeightMM)
			}
			return nil
		},
	}
}

func newMaterialsCommand() *cobra.Command {
	var volume float64

	cmd := &cobra.Command{
		Use:   "materials [mix]",
		Short: "List earth mixes, or show one mix in detail",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, name := range material.Names() {
					mix, _ := material.Get(name)
					fmt.Fprintf(w, "%-14s %s\n", name, mix.Name)
				}
				return nil
			}

			mix, err := material.Get(args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(w, material.Report(args[0], volume, mix))
			return nil
		},
	}

	cmd.Flags().Float64Var(&volume, "volume", 1.0, "print volume in cubic meters for quantity estimates")
	return cmd
}

// batchFile is the YAML shape consumed by the batch command.
type batchFile struct {
	Jobs []engine.Request `yaml:"jobs"`
}

func newBatchCommand() *cobra.Command {
	var (
		workers int
		outDir  string
	)

	cmd := &cobra.Command{
		Use:   "batch <jobs.yaml>",
		Short: "Generate instructions for every job in a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var file batchFile
			if err := yaml.Unmarshal(raw, &file); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			if len(file.Jobs) == 0 {
				return fmt.Errorf("%s contains no jobs", args[0])
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}

			items := engine.New(registry).Batch(cmd.Context(), file.Jobs, workers)

			failed := 0
			for i, item := range items {
				if item.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "job %d: %v\n", i, item.Err)
					continue
				}
				name := fmt.Sprintf("%s/job_%03d_%s.gcode", outDir, i,
					item.Result.Descriptor.Typology())
				if err := os.WriteFile(name, []byte(item.Result.GCode), 0o644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "job %d: %d layers -> %s\n",
					i, item.Result.LayerCount, name)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(items))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&workers, "workers", runtime.NumCPU(), "concurrent generation limit")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	return cmd
}

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the generation API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := server.New(server.Config{
				Addr:     addr,
				Engine:   engine.New(registry),
				Registry: registry,
			})
			return srv.Start()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
