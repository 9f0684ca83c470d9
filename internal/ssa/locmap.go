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

package ssa

import (
    `github.com/google/btree`
    `golang.org/x/tools/container/intsets`

    `github.com/reflowproject/reflow/internal/ir`
)

const _BTreeDegree = 8

/* locIntSetMap maps locations to block-index sets, ordered by the location
 * total order. Keys are cloned on first insertion so later IR rewrites of
 * the original expression cannot unbalance the tree. */
type locSetEntry struct {
    key ir.Exp
    set *intsets.Sparse
}

func lessLocSet(a *locSetEntry, b *locSetEntry) bool {
    return ir.Compare(a.key, b.key) < 0
}

type locIntSetMap struct {
    t *btree.BTreeG[*locSetEntry]
}

func newLocIntSetMap() *locIntSetMap {
    return &locIntSetMap{t: btree.NewG[*locSetEntry](_BTreeDegree, lessLocSet)}
}

func (self *locIntSetMap) len() int {
    return self.t.Len()
}

func (self *locIntSetMap) clear() {
    self.t.Clear(false)
}

func (self *locIntSetMap) get(e ir.Exp) *intsets.Sparse {
    if ent, ok := self.t.Get(&locSetEntry{key: e}); ok {
        return ent.set
    } else {
        return nil
    }
}

func (self *locIntSetMap) getOrInsert(e ir.Exp) *intsets.Sparse {
    if ent, ok := self.t.Get(&locSetEntry{key: e}); ok {
        return ent.set
    }
    ent := &locSetEntry{key: e.Clone(), set: new(intsets.Sparse)}
    self.t.ReplaceOrInsert(ent)
    return ent.set
}

/* put installs the set under a clone of e, replacing any previous entry. */
func (self *locIntSetMap) put(e ir.Exp, set *intsets.Sparse) {
    self.t.ReplaceOrInsert(&locSetEntry{key: e.Clone(), set: set})
}

func (self *locIntSetMap) forEach(fn func(e ir.Exp, set *intsets.Sparse) bool) {
    self.t.Ascend(func(ent *locSetEntry) bool { return fn(ent.key, ent.set) })
}

/* locStmtMap maps locations to one representative defining statement. */
type locStmtEntry struct {
    key ir.Exp
    def ir.Instruction
}

func lessLocStmt(a *locStmtEntry, b *locStmtEntry) bool {
    return ir.Compare(a.key, b.key) < 0
}

type locStmtMap struct {
    t *btree.BTreeG[*locStmtEntry]
}

func newLocStmtMap() *locStmtMap {
    return &locStmtMap{t: btree.NewG[*locStmtEntry](_BTreeDegree, lessLocStmt)}
}

func (self *locStmtMap) clear() {
    self.t.Clear(false)
}

func (self *locStmtMap) get(e ir.Exp) ir.Instruction {
    if ent, ok := self.t.Get(&locStmtEntry{key: e}); ok {
        return ent.def
    } else {
        return nil
    }
}

func (self *locStmtMap) put(e ir.Exp, s ir.Instruction) {
    if ent, ok := self.t.Get(&locStmtEntry{key: e}); ok {
        ent.def = s
        return
    }
    self.t.ReplaceOrInsert(&locStmtEntry{key: e.Clone(), def: s})
}
