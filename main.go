// Copyright 2025 The PicoMaps Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/heypico/picomaps/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
