// Copyright 2016 The Murxla Authors. All rights reserved. Use of this source
// code is governed by a license that can be found in the License file.

package main

import (
	"encoding/json"
	"os"

	"github.com/alex-ozdemir/murxla/supervisor"
)

// exportedError is the on-disk shape of one ErrorEntry for "--export-errors".
type exportedError struct {
	Signature string  `json:"signature"`
	Message   string  `json:"message"`
	Seeds     []int64 `json:"seeds"`
}

// exportErrors writes em as a JSON array to path, sorted by signature
// (ErrorMap.Signatures already returns sorted order), per spec.md §6's
// "--export-errors <file>".
func exportErrors(em *supervisor.ErrorMap, path string) error {
	sigs := em.Signatures()
	out := make([]exportedError, 0, len(sigs))
	for _, sig := range sigs {
		e, ok := em.Entry(sig)
		if !ok {
			continue
		}
		out = append(out, exportedError{Signature: sig, Message: e.Message, Seeds: e.Seeds})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}
