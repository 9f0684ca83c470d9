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
)

type Op uint8

const (
    OpRegister Op = iota
    OpTemp
    OpFlags
    OpFlagBit
    OpLocal
    OpConst
    OpPlus
    OpMinus
    OpMemOf
    OpPC
    OpDefineAll
    OpSubscript
)

func (self Op) String() string {
    switch self {
        case OpRegister  : return "register"
        case OpTemp      : return "temp"
        case OpFlags     : return "flags"
        case OpFlagBit   : return "flagbit"
        case OpLocal     : return "local"
        case OpConst     : return "const"
        case OpPlus      : return "+"
        case OpMinus     : return "-"
        case OpMemOf     : return "memof"
        case OpPC        : return "pc"
        case OpDefineAll : return "<all>"
        case OpSubscript : return "subscript"
        default          : panic("invalid Op")
    }
}

/* Exp is one location or value expression. Implementations are small
 * immutable-by-convention nodes; anything stored into an analysis map is
 * cloned first, so rewrites of the program text never corrupt map keys. */
type Exp interface {
    Op() Op
    Clone() Exp
    String() string
}

type Register struct {
    Index int
}

func (self *Register) Op() Op         { return OpRegister }
func (self *Register) Clone() Exp     { r := *self; return &r }
func (self *Register) String() string { return fmt.Sprintf("r%d", self.Index) }

type Temp struct {
    Name string
}

func (self *Temp) Op() Op         { return OpTemp }
func (self *Temp) Clone() Exp     { r := *self; return &r }
func (self *Temp) String() string { return self.Name }

/* Flags is the whole-flags pseudo register. */
type Flags struct{}

func (self *Flags) Op() Op         { return OpFlags }
func (self *Flags) Clone() Exp     { return &Flags{} }
func (self *Flags) String() string { return "%flags" }

/* FlagBit is one condition-code bit, like %CF or %ZF. */
type FlagBit struct {
    Name string
}

func (self *FlagBit) Op() Op         { return OpFlagBit }
func (self *FlagBit) Clone() Exp     { r := *self; return &r }
func (self *FlagBit) String() string { return "%" + self.Name }

/* Local is a named high level variable; these only exist after the
 * back-from-SSA pass has named locations. */
type Local struct {
    Name string
}

func (self *Local) Op() Op         { return OpLocal }
func (self *Local) Clone() Exp     { r := *self; return &r }
func (self *Local) String() string { return self.Name }

type Const struct {
    Value int64
}

func (self *Const) Op() Op         { return OpConst }
func (self *Const) Clone() Exp     { r := *self; return &r }
func (self *Const) String() string { return fmt.Sprintf("%d", self.Value) }

/* Binary is address arithmetic; only OpPlus and OpMinus occur in locations. */
type Binary struct {
    Oper Op
    L    Exp
    R    Exp
}

func (self *Binary) Op() Op     { return self.Oper }
func (self *Binary) Clone() Exp { return &Binary{Oper: self.Oper, L: self.L.Clone(), R: self.R.Clone()} }

func (self *Binary) String() string {
    return fmt.Sprintf("(%s %s %s)", self.L, self.Oper, self.R)
}

type MemOf struct {
    Addr Exp
}

func (self *MemOf) Op() Op         { return OpMemOf }
func (self *MemOf) Clone() Exp     { return &MemOf{Addr: self.Addr.Clone()} }
func (self *MemOf) String() string { return fmt.Sprintf("m[%s]", self.Addr) }

/* Terminal is a leaf with no operands: the program counter, or the
 * define-all sentinel. */
type Terminal struct {
    Oper Op
}

func (self *Terminal) Op() Op         { return self.Oper }
func (self *Terminal) Clone() Exp     { r := *self; return &r }
func (self *Terminal) String() string { return self.Oper.String() }

/* DefineAll is the distinguished <all> location. There is exactly one; the
 * rename stacks key the in-scope childless calls under it. */
var DefineAll Exp = &Terminal{Oper: OpDefineAll}

/* RefExp is an SSA subscripted location: Base{Def}. A nil Def denotes an
 * implicit reference, printed as {-}, that a later pass resolves to the
 * entry placeholder. */
type RefExp struct {
    Base Exp
    Def  Instruction
}

func (self *RefExp) Op() Op { return OpSubscript }

func (self *RefExp) Clone() Exp {
    return &RefExp{Base: self.Base.Clone(), Def: self.Def}
}

func (self *RefExp) String() string {
    if self.Def == nil {
        return fmt.Sprintf("%s{-}", self.Base)
    } else {
        return fmt.Sprintf("%s{%d}", self.Base, self.Def.Number())
    }
}
