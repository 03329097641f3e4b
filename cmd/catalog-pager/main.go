// Command catalog-pager pages through a remote product catalog, either as
// an HTTP API holding one listing per session or as a terminal browser.
package main

import (
	"context"
	"os"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
