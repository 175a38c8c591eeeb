// Copyright 2025 The cclit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// cclit evaluates compound-literal macros from C headers and prints them as
// fully-typed named-field initializer declarations, one per line.
//
// Usage:
//
//	cclit [--macro NAME]... [--overrides FILE] [--cc-arg ARG]... HEADER_GLOB...
package main

import (
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/nativebind/cclit/internal/cc/parser"
	"github.com/nativebind/cclit/internal/initgen"
)

func main() {
	app := &cli.App{
		Name:      "cclit",
		Usage:     "rewrite compound-literal macros as typed named-field initializers",
		ArgsUsage: "HEADER_GLOB...",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "macro",
				Aliases: []string{"m"},
				Usage:   "macro to evaluate (repeatable; default: every object-like macro in the header)",
			},
			&cli.StringFlag{
				Name:    "overrides",
				Aliases: []string{"o"},
				Usage:   "YAML file mapping stable type identities to display names",
			},
			&cli.StringSliceFlag{
				Name:  "cc-arg",
				Usage: "extra compiler argument (-I and -D are honored; repeatable)",
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("at least one header path or glob is required", 1)
	}

	registry := initgen.NewRegistry()
	if path := c.String("overrides"); path != "" {
		entries, err := loadOverrides(path)
		if err != nil {
			return fmt.Errorf("loading overrides: %w", err)
		}
		registry.SetAll(entries)
	}

	headers, err := expandGlobs(c.Args().Slice())
	if err != nil {
		return err
	}
	if len(headers) == 0 {
		return cli.Exit("no headers matched", 1)
	}

	evaluator := &initgen.Evaluator{Registry: registry}
	ccArgs := c.StringSlice("cc-arg")
	produced := 0
	for _, header := range headers {
		macros := c.StringSlice("macro")
		if len(macros) == 0 {
			macros, err = headerMacros(header, ccArgs)
			if err != nil {
				log.Printf("skipping %s: %v", header, err)
				continue
			}
		}
		for _, macro := range macros {
			decl, err := evaluator.Evaluate(header, macro, ccArgs)
			if err != nil {
				log.Printf("skipping %s in %s: %v", macro, header, err)
				continue
			}
			fmt.Println(decl)
			produced++
		}
	}
	if produced == 0 {
		return cli.Exit("no macros produced a declaration", 1)
	}
	return nil
}

// loadOverrides reads a YAML map of stable type identity to display name,
// returning entries in key order so the registry's contents do not depend on
// map iteration.
func loadOverrides(path string) ([]initgen.Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names map[string]string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(names))
	for key := range names {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	entries := make([]initgen.Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, initgen.Entry{Key: key, Name: names[key]})
	}
	return entries, nil
}

func expandGlobs(patterns []string) ([]string, error) {
	var headers []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		if matches == nil {
			// Not a pattern, or nothing matched; let evaluation report
			// the missing file.
			matches = []string{pattern}
		}
		headers = append(headers, matches...)
	}
	return headers, nil
}

// headerMacros lists the header's own object-like macros, the candidates for
// evaluation when no --macro flag narrows the set.
func headerMacros(header string, ccArgs []string) ([]string, error) {
	unit, err := parser.BuildHeaderUnit(header, ccArgs)
	if err != nil {
		return nil, err
	}
	return unit.ObjectMacroNames(header), nil
}
