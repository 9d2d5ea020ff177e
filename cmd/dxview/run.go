/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"dirpx.dev/dxview/dxcore/scenario"
)

func newRunCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario and print every notification and the final views",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "yaml" && output != "json" {
				return fmt.Errorf("--output: unknown format %q", output)
			}
			res, err := runScenario(cmd, opts, args[0])
			if err != nil {
				return err
			}
			if err := writeResult(cmd.OutOrStdout(), res, output); err != nil {
				return err
			}
			return verified(res)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format (text, yaml, json)")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <scenario.yaml>",
		Short: "Run a scenario and report only verification failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runScenario(cmd, opts, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.OK() {
				fmt.Fprintf(w, "ok: %s (%d steps, %d views)\n", args[0], len(res.Steps), len(res.Stages))
				return nil
			}
			for _, f := range res.Failures {
				fmt.Fprintln(w, f)
			}
			return verified(res)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the dxview version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dxview %s (scenario format %s)\n", version, scenario.CurrentFormat)
		},
	}
}

func runScenario(cmd *cobra.Command, opts *options, path string) (res *scenario.Result, err error) {
	doc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}

	ropts := []scenario.Option{scenario.WithLogger(opts.log)}
	if opts.metrics {
		meter, shutdown, merr := newMeter(cmd.ErrOrStderr())
		if merr != nil {
			return nil, merr
		}
		defer func() {
			if serr := shutdown(cmd.Context()); serr != nil && err == nil {
				err = fmt.Errorf("flush metrics: %w", serr)
			}
		}()
		ropts = append(ropts, scenario.WithMeter(meter))
	}

	opts.log.Info("running scenario", slog.String("path", path), slog.String("name", doc.Name))
	return scenario.Run(cmd.Context(), doc, ropts...)
}

func writeResult(w io.Writer, res *scenario.Result, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(res); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		return res.WriteText(w)
	}
}

func verified(res *scenario.Result) error {
	if res.OK() {
		return nil
	}
	return fmt.Errorf("verification failed: %d failure(s)", len(res.Failures))
}
