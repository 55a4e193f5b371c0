// SPDX-License-Identifier: Unlicense OR MIT

// Command touchtrace replays recorded touch traces through the
// multitouch gesture recognizer, or serves the recognizer to remote
// touch surfaces over websocket.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "touchtrace: %v\n", err)
		os.Exit(1)
	}
}
