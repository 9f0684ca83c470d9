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

package ir

import (
    `fmt`
    `sort`
    `strings`
)

/* Instruction is one IR statement. Statement numbers are assigned by the CFG
 * when statements are attached; number 0 is reserved for entry placeholders.
 * Dominance numbers are assigned by the dataflow core in dominator-tree
 * pre-order. */
type Instruction interface {
    Number() int
    SetNumber(n int)
    DomNumber() int
    SetDomNumber(n int)
    IsPhi() bool
    IsCall() bool
    IsReturn() bool
    GetDefinitions(defs *LocationSet)
    AddUsedLocs(used *LocationSet)
    SubscriptVar(x Exp, def Instruction)
    String() string
}

type baseStmt struct {
    num    int
    domNum int
}

func (self *baseStmt) Number() int         { return self.num }
func (self *baseStmt) SetNumber(n int)     { self.num = n }
func (self *baseStmt) DomNumber() int      { return self.domNum }
func (self *baseStmt) SetDomNumber(n int)  { self.domNum = n }
func (self *baseStmt) IsPhi() bool         { return false }
func (self *baseStmt) IsCall() bool        { return false }
func (self *baseStmt) IsReturn() bool      { return false }

/* Assign is an ordinary assignment Lhs := Rhs. */
type Assign struct {
    baseStmt
    Lhs Exp
    Rhs Exp
}

func NewAssign(lhs Exp, rhs Exp) *Assign {
    return &Assign{Lhs: lhs, Rhs: rhs}
}

func (self *Assign) GetLeft() Exp  { return self.Lhs }
func (self *Assign) GetRight() Exp { return self.Rhs }

func (self *Assign) Clone() *Assign {
    rs := &Assign{Lhs: self.Lhs.Clone(), Rhs: self.Rhs.Clone()}
    rs.num = self.num
    return rs
}

func (self *Assign) GetDefinitions(defs *LocationSet) {
    defs.Insert(self.Lhs)
}

func (self *Assign) AddUsedLocs(used *LocationSet) {
    UsedLocs(self.Rhs, used)
    addLhsAddrUses(self.Lhs, used)
}

func (self *Assign) SubscriptVar(x Exp, def Instruction) {
    self.Rhs = ExpSubscriptVar(self.Rhs, x, def)
    self.Lhs = subscriptLhsAddr(self.Lhs, x, def)
}

/* SearchAndReplace substitutes to for every occurrence of from, on both
 * sides. Returns whether anything changed. */
func (self *Assign) SearchAndReplace(from Exp, to Exp) bool {
    sr := &searchReplacer{from: from, to: to}
    self.Lhs = Rewrite(self.Lhs, sr)
    self.Rhs = Rewrite(self.Rhs, sr)
    return sr.change
}

func (self *Assign) String() string {
    return fmt.Sprintf("%d: %s := %s", self.num, self.Lhs, self.Rhs)
}

type searchReplacer struct {
    from   Exp
    to     Exp
    change bool
}

func (self *searchReplacer) Modify(e Exp) Exp {
    if Equal(e, self.from) {
        self.change = true
        return self.to.Clone()
    } else {
        return e
    }
}

/* a definition of m[a] still evaluates a */
func addLhsAddrUses(lhs Exp, used *LocationSet) {
    switch x := lhs.(type) {
        case *MemOf  : UsedLocs(x.Addr, used)
        case *RefExp : addLhsAddrUses(x.Base, used)
    }
}

func subscriptLhsAddr(lhs Exp, x Exp, def Instruction) Exp {
    switch v := lhs.(type) {
        case *MemOf  : v.Addr = ExpSubscriptVar(v.Addr, x, def)
        case *RefExp : v.Base = subscriptLhsAddr(v.Base, x, def)
    }
    return lhs
}

/* ImplicitAssign is the entry placeholder Lhs := <on entry>. One exists per
 * location, owned by the CFG implicit table, always numbered 0. */
type ImplicitAssign struct {
    baseStmt
    Lhs Exp
}

func NewImplicitAssign(lhs Exp) *ImplicitAssign {
    return &ImplicitAssign{Lhs: lhs}
}

func (self *ImplicitAssign) GetLeft() Exp { return self.Lhs }

func (self *ImplicitAssign) GetDefinitions(defs *LocationSet) {
    defs.Insert(self.Lhs)
}

func (self *ImplicitAssign) AddUsedLocs(used *LocationSet)         {}
func (self *ImplicitAssign) SubscriptVar(x Exp, def Instruction)   {}

func (self *ImplicitAssign) String() string {
    return fmt.Sprintf("%d: %s := -", self.num, self.Lhs)
}

/* PhiArg is one φ operand: the location contributed along one in-edge, and
 * the statement that defines it there. */
type PhiArg struct {
    E   Exp
    Def Instruction
}

/* PhiAssign is a φ assignment Lhs := φ(...), with operands keyed by the
 * index of the predecessor block that contributes them. */
type PhiAssign struct {
    baseStmt
    Lhs  Exp
    Args map[int]*PhiArg
}

func NewPhiAssign(lhs Exp) *PhiAssign {
    return &PhiAssign{Lhs: lhs, Args: make(map[int]*PhiArg)}
}

func (self *PhiAssign) IsPhi() bool  { return true }
func (self *PhiAssign) GetLeft() Exp { return self.Lhs }

/* PutAt records the operand contributed along the edge from block pred. */
func (self *PhiAssign) PutAt(pred int, def Instruction, lhs Exp) {
    self.Args[pred] = &PhiArg{E: lhs.Clone(), Def: def}
}

/* ForEachArg visits the operands in ascending predecessor order. */
func (self *PhiAssign) ForEachArg(fn func(pred int, arg *PhiArg)) {
    keys := make([]int, 0, len(self.Args))
    for k := range self.Args {
        keys = append(keys, k)
    }
    sort.Ints(keys)
    for _, k := range keys {
        fn(k, self.Args[k])
    }
}

func (self *PhiAssign) GetDefinitions(defs *LocationSet) {
    defs.Insert(self.Lhs)
}

func (self *PhiAssign) AddUsedLocs(used *LocationSet) {
    self.ForEachArg(func(pred int, arg *PhiArg) {
        if arg.E != nil {
            used.Insert(&RefExp{Base: arg.E, Def: arg.Def})
        }
    })
    addLhsAddrUses(self.Lhs, used)
}

/* SubscriptVar on a φ touches only the left side's address expression; the
 * operands are maintained by the renamer through PutAt. */
func (self *PhiAssign) SubscriptVar(x Exp, def Instruction) {
    self.Lhs = subscriptLhsAddr(self.Lhs, x, def)
}

func (self *PhiAssign) String() string {
    ss := make([]string, 0, len(self.Args))
    self.ForEachArg(func(pred int, arg *PhiArg) {
        ss = append(ss, fmt.Sprintf("%d: %s", pred, &RefExp{Base: arg.E, Def: arg.Def}))
    })
    return fmt.Sprintf("%d: %s := phi{%s}", self.num, self.Lhs, strings.Join(ss, ", "))
}
