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
    `math`
)

/* ReachabilityMatrix holds the pairwise hop distance between blocks, with
 * MaxInt64 meaning unreachable. */
type ReachabilityMatrix struct {
    dist [][]uint64
}

func minu64(a uint64, b uint64) uint64 {
    if a < b {
        return a
    } else {
        return b
    }
}

/* BuildReachabilityMatrix computes all-pairs reachability with the
 * Floyd-Warshall algorithm. Quadratic space; meant for diagnostics and
 * verification, not for the analysis hot path. */
func BuildReachabilityMatrix(g *Cfg) *ReachabilityMatrix {
    nb := g.NumBBs()
    rm := &ReachabilityMatrix{dist: make([][]uint64, nb)}

    /* initialize each row */
    for i := range rm.dist {
        rm.dist[i] = make([]uint64, nb)
        for j := range rm.dist[i] {
            rm.dist[i][j] = math.MaxInt64
        }
    }

    /* add each block and edge */
    for _, bb := range g.Blocks() {
        rm.dist[bb.Id][bb.Id] = 0
        for _, w := range bb.Out {
            rm.dist[bb.Id][w.Id] = 1
        }
    }

    /* Floyd-Warshall algorithm */
    for k := 0; k < nb; k++ {
        for i := 0; i < nb; i++ {
            for j := 0; j < nb; j++ {
                rm.dist[i][j] = minu64(
                    rm.dist[i][j],
                    rm.dist[i][k] + rm.dist[k][j],
                )
            }
        }
    }
    return rm
}

func (self *ReachabilityMatrix) Reachable(from int, to int) bool {
    return self.dist[from][to] < math.MaxInt64
}

func (self *ReachabilityMatrix) Distance(from int, to int) uint64 {
    return self.dist[from][to]
}
