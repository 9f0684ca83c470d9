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
    `fmt`
    `strings`

    `golang.org/x/tools/container/intsets`
    `k8s.io/klog/v2`

    `github.com/reflowproject/reflow/internal/ir`
)

/* debugging dumps; all output goes through the process logger */

func (self *DataFlow) DumpAPhi() {
    klog.Info("A_phi:")
    self.aPhi.forEach(func(e ir.Exp, set *intsets.Sparse) bool {
        klog.Infof("  %s -> %s", e, joinInts(set.AppendTo(nil)))
        return true
    })
    klog.Info("end A_phi")
}

func (self *DataFlow) DumpDefsites() {
    self.defsites.forEach(func(e ir.Exp, set *intsets.Sparse) bool {
        klog.Infof("%s %s", e, joinInts(set.AppendTo(nil)))
        return true
    })
}

func (self *DataFlow) DumpAOrig() {
    for i, se := range self.aOrig {
        klog.Infof("%d %s", i, se)
    }
}

func (self *DataFlow) DumpStacks() {
    klog.Infof("Stacks: %d entries", self.stacks.Len())
    self.stacks.t.Ascend(func(ent *stackEntry) bool {
        nums := make([]string, 0, len(ent.defs))
        for i := len(ent.defs) - 1; i >= 0; i-- {
            nums = append(nums, fmt.Sprintf("%d", ent.defs[i].Number()))
        }
        klog.Infof("Var %s [ %s ]", ent.key, strings.Join(nums, " "))
        return true
    })
}

func joinInts(xs []int) string {
    ss := make([]string, 0, len(xs))
    for _, x := range xs {
        ss = append(ss, fmt.Sprintf("%d", x))
    }
    return strings.Join(ss, ", ")
}
