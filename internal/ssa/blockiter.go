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
    `github.com/oleiade/lane`
)

/* DomTreeIter yields the reachable block indices bottom-up over the
 * dominator tree: a block is produced only after all the blocks it
 * dominates. Children lists are precomputed once, so iteration does not
 * rescan idom per node. */
type DomTreeIter struct {
    b    int
    s    *lane.Stack
    v    map[int]struct{}
    kids [][]int
}

func NewDomTreeIter(df *DataFlow) *DomTreeIter {
    nb := len(df.idom)
    kids := make([][]int, nb)
    for c := 0; c < nb; c++ {
        if p := df.idom[c]; p != -1 {
            kids[p] = append(kids[p], c)
        }
    }
    s := lane.NewStack()
    s.Push(0)
    return &DomTreeIter{
        b    : -1,
        s    : s,
        v    : map[int]struct{}{0: {}},
        kids : kids,
    }
}

func (self *DomTreeIter) Next() bool {
    var tail bool
    var this int

    /* scan until the stack is empty */
    for !self.s.Empty() {
        tail = true
        this = self.s.Head().(int)

        /* push the first unvisited child */
        for _, c := range self.kids[this] {
            if _, ok := self.v[c]; !ok {
                tail = false
                self.v[c] = struct{}{}
                self.s.Push(c)
                break
            }
        }

        /* all children visited, emit the current block */
        if tail {
            self.b = self.s.Pop().(int)
            return true
        }
    }

    self.b = -1
    return false
}

func (self *DomTreeIter) Block() int {
    return self.b
}

func (self *DomTreeIter) ForEach(action func(n int)) {
    for self.Next() {
        action(self.b)
    }
}
