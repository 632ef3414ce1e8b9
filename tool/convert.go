// Copyright 2026 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package tool

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/structuredlog/buildlog"
	"gopkg.in/yaml.v3"
)

// convertT implements the convert command.
type convertT struct {
	Root *cobra.Command

	opts        *buildlog.Options
	compression buildlog.Compression
	optionsPath string
}

// optionsFile is the format of the file named by --options:
//
//	compression: snappy
//	max_depth: 4096
type optionsFile struct {
	Compression *buildlog.Compression `yaml:"compression"`
	MaxDepth    int                   `yaml:"max_depth"`
}

func newConvert(opts *buildlog.Options) *convertT {
	c := &convertT{opts: opts}
	c.Root = &cobra.Command{
		Use:   "convert <src> <dst>",
		Short: "rewrite an artifact",
		Long: `
Read the tree stored in src and write it to dst, by default with the
compression of src. Nodes of unknown kinds are preserved.
`,
		Args: cobra.ExactArgs(2),
		Run:  c.run,
	}
	c.Root.Flags().Var(&c.compression, "compression",
		"compression of dst: none, snappy, s2, zstd or default")
	c.Root.Flags().StringVar(&c.optionsPath, "options", "",
		"YAML file with options for reading src and writing dst")
	return c
}

func (c *convertT) run(cmd *cobra.Command, args []string) {
	stdout, stderr := cmd.OutOrStdout(), cmd.OutOrStderr()
	m, err := c.convert(cmd, args[0], args[1])
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return
	}
	fmt.Fprintf(stdout, "%s: %d nodes, %d bytes (%s)\n", args[1], m.Nodes, m.FileBytes, m.Compression)
}

func (c *convertT) convert(cmd *cobra.Command, src, dst string) (buildlog.Metrics, error) {
	opts := c.opts.Clone()
	var of optionsFile
	if c.optionsPath != "" {
		if err := c.loadOptions(&of); err != nil {
			return buildlog.Metrics{}, err
		}
		if of.MaxDepth > 0 {
			opts.MaxDepth = of.MaxDepth
		}
	}

	r, err := buildlog.Open(src, opts)
	if err != nil {
		return buildlog.Metrics{}, err
	}
	root, err := r.ReadRoot()
	err = errors.CombineErrors(err, r.Close())
	if err != nil {
		return buildlog.Metrics{}, err
	}

	// The flag takes precedence over the options file, which takes
	// precedence over the compression of src.
	opts.Compression = r.Metrics().Compression
	if of.Compression != nil {
		opts.Compression = *of.Compression
	}
	if cmd.Flags().Changed("compression") {
		opts.Compression = c.compression
	}
	w, err := buildlog.Create(dst, opts)
	if err != nil {
		return buildlog.Metrics{}, err
	}
	if err := w.WriteRoot(root); err != nil {
		return buildlog.Metrics{}, errors.CombineErrors(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return buildlog.Metrics{}, err
	}
	return w.Metrics(), nil
}

func (c *convertT) loadOptions(of *optionsFile) error {
	f, err := c.opts.FS.Open(c.optionsPath)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return errors.Wrapf(err, "reading %s", c.optionsPath)
	}
	if err := yaml.Unmarshal(data, of); err != nil {
		return errors.Wrapf(err, "parsing %s", c.optionsPath)
	}
	return nil
}
