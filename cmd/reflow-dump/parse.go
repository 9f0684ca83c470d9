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

package main

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/reflowproject/reflow/internal/cfg"
	"github.com/reflowproject/reflow/internal/ir"
	"github.com/reflowproject/reflow/internal/proc"
)

// The input is a line-based CFG description. Blocks are created on first
// mention; the first block mentioned is the entry.
//
//	edge b0 b1           an edge b0 -> b1
//	def  b0 r1           r1 := 0 appended to b0
//	use  b2 r1           tmp := r1 appended to b2
//	call b1 f childless  a call to the unanalysed procedure f in b1
//	ret  b2 r1           return r1 from b2
type parsedProc struct {
	proc   *proc.Proc
	graph  *cfg.Cfg
	blocks map[string]*cfg.BasicBlock
	ntemp  int
}

func parseFile(path string, spIndex int) (*parsedProc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "reflow-dump: open input")
	}
	defer f.Close()

	p := &parsedProc{
		graph:  cfg.NewCfg(),
		blocks: make(map[string]*cfg.BasicBlock),
	}
	p.proc = proc.NewProc(strings.TrimSuffix(path, ".cfg"), p.graph, spIndex)

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, errors.Wrapf(err, "reflow-dump: %s:%d", path, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reflow-dump: read input")
	}
	if p.graph.NumBBs() == 0 {
		return nil, errors.New("reflow-dump: empty CFG description")
	}
	return p, nil
}

func (p *parsedProc) parseLine(text string) error {
	text = strings.TrimSpace(text)
	if text == "" || strings.HasPrefix(text, "#") {
		return nil
	}
	fs := strings.Fields(text)
	switch fs[0] {
	case "edge":
		if len(fs) != 3 {
			return errors.New("edge wants two block names")
		}
		return p.graph.AddEdge(p.block(fs[1]), p.block(fs[2]))
	case "def":
		if len(fs) != 3 {
			return errors.New("def wants a block and a register")
		}
		r, err := parseReg(fs[2])
		if err != nil {
			return err
		}
		p.graph.AppendStmt(p.block(fs[1]), ir.NewAssign(r, &ir.Const{Value: 0}))
		return nil
	case "use":
		if len(fs) != 3 {
			return errors.New("use wants a block and a register")
		}
		r, err := parseReg(fs[2])
		if err != nil {
			return err
		}
		p.ntemp++
		tmp := &ir.Temp{Name: "tmp" + strconv.Itoa(p.ntemp)}
		p.graph.AppendStmt(p.block(fs[1]), ir.NewAssign(tmp, r))
		return nil
	case "call":
		if len(fs) != 3 && !(len(fs) == 4 && fs[3] == "childless") {
			return errors.New(`call wants a block, a callee and optionally "childless"`)
		}
		p.graph.AppendStmt(p.block(fs[1]), ir.NewCallStatement(fs[2], len(fs) == 4))
		return nil
	case "ret":
		if len(fs) < 2 {
			return errors.New("ret wants a block")
		}
		ret := ir.NewReturnStatement()
		for _, t := range fs[2:] {
			r, err := parseReg(t)
			if err != nil {
				return err
			}
			ret.AddReturn(r)
		}
		p.graph.AppendStmt(p.block(fs[1]), ret)
		return nil
	default:
		return errors.Errorf("unknown directive %q", fs[0])
	}
}

func (p *parsedProc) block(name string) *cfg.BasicBlock {
	if bb, ok := p.blocks[name]; ok {
		return bb
	}
	bb := p.graph.NewBlock()
	p.blocks[name] = bb
	return bb
}

func parseReg(s string) (ir.Exp, error) {
	if !strings.HasPrefix(s, "r") {
		return nil, errors.Errorf("bad register %q", s)
	}
	n, err := strconv.Atoi(s[1:])
	if err != nil {
		return nil, errors.Errorf("bad register %q", s)
	}
	return &ir.Register{Index: n}, nil
}
