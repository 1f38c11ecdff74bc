// Copyright 2026 The Nit Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package nitstore

import (
	"fmt"
	"os"
	"time"
)

// uniqueFilename returns a name unique among names produced by this
// function on this machine: the process id and a nanosecond timestamp
// can't collide between two processes or two calls within one process.
func uniqueFilename(prefix, suffix string) string {
	return fmt.Sprintf("%s%d-%d%s", prefix, os.Getpid(), time.Now().UnixNano(), suffix)
}
