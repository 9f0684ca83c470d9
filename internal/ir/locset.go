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
    `strings`

    `github.com/google/btree`
)

const _BTreeDegree = 8

func lessExp(a Exp, b Exp) bool {
    return Compare(a, b) < 0
}

/* LocationSet is an ordered set of location expressions. Membership is by
 * structural equality; iteration follows the Compare order. */
type LocationSet struct {
    t *btree.BTreeG[Exp]
}

func NewLocationSet() *LocationSet {
    return &LocationSet{t: btree.NewG[Exp](_BTreeDegree, lessExp)}
}

func (self *LocationSet) Len() int {
    return self.t.Len()
}

func (self *LocationSet) Insert(e Exp) {
    if !self.t.Has(e) {
        self.t.ReplaceOrInsert(e)
    }
}

func (self *LocationSet) Remove(e Exp) bool {
    _, ok := self.t.Delete(e)
    return ok
}

func (self *LocationSet) Contains(e Exp) bool {
    return self.t.Has(e)
}

/* Find returns the member equal to e, which may be a different object. */
func (self *LocationSet) Find(e Exp) (Exp, bool) {
    return self.t.Get(e)
}

func (self *LocationSet) ForEach(fn func(e Exp) bool) {
    self.t.Ascend(fn)
}

func (self *LocationSet) Clone() *LocationSet {
    rs := NewLocationSet()
    self.t.Ascend(func(e Exp) bool { rs.Insert(e.Clone()); return true })
    return rs
}

func (self *LocationSet) Equal(other *LocationSet) bool {
    if self.Len() != other.Len() {
        return false
    }
    eq := true
    self.t.Ascend(func(e Exp) bool {
        if !other.Contains(e) {
            eq = false
            return false
        }
        return true
    })
    return eq
}

func (self *LocationSet) String() string {
    ss := make([]string, 0, self.Len())
    self.t.Ascend(func(e Exp) bool { ss = append(ss, e.String()); return true })
    return "{" + strings.Join(ss, ", ") + "}"
}
