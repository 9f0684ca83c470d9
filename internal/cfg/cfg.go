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

package cfg

import (
    `fmt`

    `github.com/google/btree`
    `github.com/pkg/errors`

    `github.com/reflowproject/reflow/internal/ir`
)

/* BasicBlock is one straight-line run of statements. Blocks own their
 * statements; edges are plain pointers, never owning. */
type BasicBlock struct {
    Id    int
    Stmts []ir.Instruction
    In    []*BasicBlock
    Out   []*BasicBlock
}

/* ForEachStmt visits the statements first to last. */
func (self *BasicBlock) ForEachStmt(fn func(s ir.Instruction) bool) {
    for _, s := range self.Stmts {
        if !fn(s) {
            return
        }
    }
}

/* ForEachStmtRev visits the statements last to first. */
func (self *BasicBlock) ForEachStmtRev(fn func(s ir.Instruction) bool) {
    for i := len(self.Stmts) - 1; i >= 0; i-- {
        if !fn(self.Stmts[i]) {
            return
        }
    }
}

func (self *BasicBlock) FirstStmt() ir.Instruction {
    if len(self.Stmts) == 0 {
        return nil
    } else {
        return self.Stmts[0]
    }
}

func (self *BasicBlock) String() string {
    return fmt.Sprintf("bb_%d", self.Id)
}

type implicitEntry struct {
    key ir.Exp
    def *ir.ImplicitAssign
}

func lessImplicit(a *implicitEntry, b *implicitEntry) bool {
    return ir.Compare(a.key, b.key) < 0
}

/* Cfg is the control flow graph of one procedure. It numbers statements as
 * they are attached and owns the table of entry placeholders. */
type Cfg struct {
    entry     *BasicBlock
    blocks    []*BasicBlock
    implicits *btree.BTreeG[*implicitEntry]
    nextNum   int
}

func NewCfg() *Cfg {
    return &Cfg{implicits: btree.NewG[*implicitEntry](8, lessImplicit)}
}

/* NewBlock appends a fresh empty block. The first block is the entry. */
func (self *Cfg) NewBlock() *BasicBlock {
    bb := &BasicBlock{Id: len(self.blocks)}
    self.blocks = append(self.blocks, bb)
    if self.entry == nil {
        self.entry = bb
    }
    return bb
}

func (self *Cfg) EntryBB() *BasicBlock    { return self.entry }
func (self *Cfg) NumBBs() int             { return len(self.blocks) }
func (self *Cfg) Blocks() []*BasicBlock   { return self.blocks }

func (self *Cfg) owns(bb *BasicBlock) bool {
    return bb != nil && bb.Id >= 0 && bb.Id < len(self.blocks) && self.blocks[bb.Id] == bb
}

/* AddEdge links from -> to. Both blocks must belong to this graph. */
func (self *Cfg) AddEdge(from *BasicBlock, to *BasicBlock) error {
    if !self.owns(from) {
        return errors.Errorf("cfg: source block %v not in this graph", from)
    }
    if !self.owns(to) {
        return errors.Errorf("cfg: target block %v not in this graph", to)
    }
    from.Out = append(from.Out, to)
    to.In = append(to.In, from)
    return nil
}

/* AppendStmt attaches s at the end of bb, assigning its statement number. */
func (self *Cfg) AppendStmt(bb *BasicBlock, s ir.Instruction) {
    self.nextNum++
    s.SetNumber(self.nextNum)
    bb.Stmts = append(bb.Stmts, s)
}

/* PrependStmt attaches s at the front of bb, assigning its statement number.
 * Ownership of s passes to the graph. */
func (self *Cfg) PrependStmt(bb *BasicBlock, s ir.Instruction) {
    self.nextNum++
    s.SetNumber(self.nextNum)
    bb.Stmts = append([]ir.Instruction{s}, bb.Stmts...)
}

/* FindImplicitAssign returns the entry placeholder for e, creating one on
 * first request. Placeholders keep statement number 0 and live at the top of
 * the entry block. */
func (self *Cfg) FindImplicitAssign(e ir.Exp) ir.Instruction {
    if ent, ok := self.implicits.Get(&implicitEntry{key: e}); ok {
        return ent.def
    }
    ia := ir.NewImplicitAssign(e.Clone())
    self.entry.Stmts = append([]ir.Instruction{ia}, self.entry.Stmts...)
    self.implicits.ReplaceOrInsert(&implicitEntry{key: e.Clone(), def: ia})
    return ia
}
