// Copyright 2017 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package validate

import "fmt"

// checkMem validates a memory-bearing instruction's alignment immediate
// against the module's memory presence and the operation's natural
// width (spec §4.3 check_mem).
func checkMem(env *Env, align uint32, width uint8, context string) error {
	if !env.module.HasMemory() {
		return unknownMemory(0)
	}
	if align >= uint32(width) {
		return alignmentTooLarge(fmt.Sprintf("%s: align=%d width=%d", context, align, width))
	}
	return nil
}
