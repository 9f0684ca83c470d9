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
    `strings`
)

/* CallStatement is a call site. A childless call is one whose callee has not
 * been analysed yet; it conservatively defines every location. The use
 * collector gathers locations found to be live through the call, the def
 * collector the definitions reaching it. */
type CallStatement struct {
    baseStmt
    Dest      string
    Args      []Exp
    Defines   *LocationSet
    childless bool
    useCol    UseCollector
    defCol    DefCollector
}

func NewCallStatement(dest string, childless bool) *CallStatement {
    return &CallStatement{
        Dest      : dest,
        childless : childless,
        Defines   : NewLocationSet(),
        useCol    : *NewUseCollector(),
        defCol    : *NewDefCollector(),
    }
}

func (self *CallStatement) IsCall() bool      { return true }
func (self *CallStatement) IsChildless() bool { return self.childless }

func (self *CallStatement) GetUseCollector() *UseCollector { return &self.useCol }
func (self *CallStatement) GetDefCollector() *DefCollector { return &self.defCol }

/* UseBeforeDefine records that e is used at or after this call before any
 * definition inside the call's scope is known. */
func (self *CallStatement) UseBeforeDefine(e Exp) {
    self.useCol.Insert(e)
}

func (self *CallStatement) AddArgument(e Exp) {
    self.Args = append(self.Args, e)
}

/* Define declares a location the (analysed) callee assigns. */
func (self *CallStatement) Define(e Exp) {
    self.Defines.Insert(e)
}

func (self *CallStatement) GetDefinitions(defs *LocationSet) {
    self.Defines.ForEach(func(e Exp) bool {
        defs.Insert(e)
        return true
    })
}

func (self *CallStatement) AddUsedLocs(used *LocationSet) {
    for _, a := range self.Args {
        UsedLocs(a, used)
    }
}

func (self *CallStatement) SubscriptVar(x Exp, def Instruction) {
    for i, a := range self.Args {
        self.Args[i] = ExpSubscriptVar(a, x, def)
    }
}

func (self *CallStatement) String() string {
    ss := make([]string, 0, len(self.Args))
    for _, a := range self.Args {
        ss = append(ss, a.String())
    }
    return fmt.Sprintf("%d: call %s(%s)", self.num, self.Dest, strings.Join(ss, ", "))
}

/* ReturnStatement carries the values returned from the procedure and the
 * collector of definitions reaching the exit. */
type ReturnStatement struct {
    baseStmt
    Returns []Exp
    col     DefCollector
}

func NewReturnStatement() *ReturnStatement {
    return &ReturnStatement{col: *NewDefCollector()}
}

func (self *ReturnStatement) IsReturn() bool { return true }

func (self *ReturnStatement) GetCollector() *DefCollector { return &self.col }

func (self *ReturnStatement) AddReturn(e Exp) {
    self.Returns = append(self.Returns, e)
}

func (self *ReturnStatement) GetDefinitions(defs *LocationSet) {}

func (self *ReturnStatement) AddUsedLocs(used *LocationSet) {
    for _, r := range self.Returns {
        UsedLocs(r, used)
    }
}

func (self *ReturnStatement) SubscriptVar(x Exp, def Instruction) {
    for i, r := range self.Returns {
        self.Returns[i] = ExpSubscriptVar(r, x, def)
    }
}

func (self *ReturnStatement) String() string {
    ss := make([]string, 0, len(self.Returns))
    for _, r := range self.Returns {
        ss = append(ss, r.String())
    }
    return fmt.Sprintf("%d: ret %s", self.num, strings.Join(ss, ", "))
}
