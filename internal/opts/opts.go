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

package opts

import (
    `os`
    `strconv`
)

const (
    _DefaultProgressInterval = 200 // rename progress tick every N blocks
)

var (
    /* AssumeABI makes childless calls respect the platform ABI instead of
     * conservatively defining every location. Read-only during analysis. */
    AssumeABI = parseBool("REFLOW_ASSUME_ABI", false)

    /* ProgressInterval controls how often the renamer logs a progress tick. */
    ProgressInterval = parseOrDefault("REFLOW_PROGRESS_INTERVAL", _DefaultProgressInterval, 1)
)

func parseBool(key string, def bool) bool {
    if env := os.Getenv(key); env == "" {
        return def
    } else if val, err := strconv.ParseBool(env); err != nil {
        panic("reflow: invalid value for " + key)
    } else {
        return val
    }
}

func parseOrDefault(key string, def int, min int) int {
    if env := os.Getenv(key); env == "" {
        return def
    } else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
        panic("reflow: invalid value for " + key)
    } else if ret := int(val); ret < min {
        panic("reflow: value too small for " + key)
    } else {
        return ret
    }
}
