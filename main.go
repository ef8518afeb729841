// SPDX-License-Identifier: GPL-2.0-or-later

package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"goqbsp/bsp"
	"goqbsp/commandline"
	"goqbsp/compiler"
	"goqbsp/config"
	"goqbsp/conlog"
	"goqbsp/mapfile"
	"goqbsp/pack"
	"goqbsp/report"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input.map\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "goqbsp: %v\n", err)
		os.Exit(1)
	}
}

func mapName(input string) string {
	return strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
}

func outputPath(input string, cfg *config.Config) string {
	if o := commandline.Output(); o != "" {
		return o
	}
	dir := cfg.Output.Dir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, mapName(input)+".bsp")
}

func run(input string) error {
	cfg, err := config.Load(commandline.ConfigFile())
	if err != nil {
		return err
	}
	commandline.Apply(cfg)
	if err := conlog.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return errors.Wrap(err, "init logging")
	}
	defer conlog.Sync()

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	m, err := mapfile.Parse(f)
	f.Close()
	if err != nil {
		return errors.Wrap(err, input)
	}

	brushes, skipped := m.WorldBrushes()
	for _, e := range skipped {
		n, _ := e.Name()
		conlog.Printf("skipping %d brushes of %s at line %d", len(e.Brushes), n, e.Line)
	}

	r, err := compiler.Compile(brushes, m.BSPEntities(), compiler.Options{
		Logger: conlog.Logger(),
		Strict: cfg.Compile.Strict,
	})
	if err != nil {
		return errors.Wrap(err, input)
	}
	if len(r.Dropped) > 0 {
		conlog.Warnf("%d overlapping brushes were dropped", len(r.Dropped))
	}

	var buf bytes.Buffer
	if err := bsp.Write(&buf, r.Data); err != nil {
		return err
	}
	out := outputPath(input, cfg)
	if err := os.WriteFile(out, buf.Bytes(), 0644); err != nil {
		return err
	}
	conlog.Printf("wrote %s: %d planes, %d nodes, %d leafs, %d faces",
		out, r.Stats.Planes, r.Stats.Nodes, r.Stats.Leaves, r.Stats.Faces)

	if cfg.Output.Pak != "" {
		if err := writePak(cfg.Output.Pak, "maps/"+mapName(input)+".bsp", buf.Bytes()); err != nil {
			return err
		}
		conlog.Printf("packed into %s", cfg.Output.Pak)
	}

	if cfg.Output.Report != "" {
		h, err := report.Load(cfg.Output.Report)
		if err != nil {
			return err
		}
		h.Add(report.FromResult(r, input, out))
		if err := h.Save(cfg.Output.Report); err != nil {
			return err
		}
		conlog.DPrintf("compile %v added to %s", r.ID, cfg.Output.Report)
	}
	return nil
}

func writePak(name, entry string, data []byte) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	w, err := pack.NewWriter(f)
	if err == nil {
		err = w.Add(entry, data)
	}
	if err == nil {
		err = w.Close()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return errors.Wrapf(err, "writing %s", name)
}
