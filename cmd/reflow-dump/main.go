/*
 * Copyright 2024 Reflow Project Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// reflow-dump parses a textual CFG description and prints the dominator
// tree, the dominance frontiers, or the SSA form of the procedure. It is a
// debugging aid for the dataflow core, not part of the decompiler pipeline.
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"k8s.io/klog/v2"

	"github.com/reflowproject/reflow"
	"github.com/reflowproject/reflow/internal/ssa"
)

var (
	spIndex int
	locals  bool
)

func main() {
	root := &cobra.Command{
		Use:           "reflow-dump",
		Short:         "dump dominator and SSA information for a textual CFG",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().IntVar(&spIndex, "sp", 28, "stack pointer register index")
	root.PersistentFlags().BoolVar(&locals, "locals", false, "rename stack locals and parameters")

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)
	flag.CommandLine = root.PersistentFlags()

	root.AddCommand(
		&cobra.Command{
			Use:   "dom <file>",
			Short: "print the immediate dominator of every block",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return run(args[0], dumpDom) },
		},
		&cobra.Command{
			Use:   "df <file>",
			Short: "print the dominance frontier of every block",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return run(args[0], dumpDF) },
		},
		&cobra.Command{
			Use:   "ssa <file>",
			Short: "print the procedure after the SSA transformation",
			Args:  cobra.ExactArgs(1),
			RunE:  func(cmd *cobra.Command, args []string) error { return run(args[0], dumpSSA) },
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "reflow-dump:", err)
		os.Exit(1)
	}
}

func run(path string, dump func(df *ssa.DataFlow, p *parsedProc) error) error {
	p, err := parseFile(path, spIndex)
	if err != nil {
		return err
	}
	df, err := reflow.SSATransform(p.proc, reflow.WithLocalsAndParams(locals))
	if err != nil {
		return err
	}
	return dump(df, p)
}

func dumpDom(df *ssa.DataFlow, p *parsedProc) error {
	for i := 0; i < df.NumIndexed(); i++ {
		fmt.Printf("%s: idom = %d\n", df.BlockAt(i), df.Idom(i))
	}
	return nil
}

func dumpDF(df *ssa.DataFlow, p *parsedProc) error {
	for i := 0; i < df.NumIndexed(); i++ {
		ss := make([]string, 0)
		for _, w := range df.DF(i) {
			ss = append(ss, fmt.Sprintf("%d", w))
		}
		fmt.Printf("%s: DF = {%s}\n", df.BlockAt(i), strings.Join(ss, ", "))
	}
	return nil
}

func dumpSSA(df *ssa.DataFlow, p *parsedProc) error {
	for _, bb := range p.proc.GetCFG().Blocks() {
		fmt.Printf("%s:\n", bb)
		for _, s := range bb.Stmts {
			fmt.Printf("    %s\n", s)
		}
	}
	if p.proc.UseCollector().Len() != 0 {
		fmt.Printf("entry uses: %s\n", p.proc.UseCollector())
	}
	return nil
}
