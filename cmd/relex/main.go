// Command relex classifies strings with lexers defined in a config file.
//
// Usage:
//
//	relex check --config lexers.yaml
//	relex match --config lexers.yaml --lexer value 42 n/a "after 5s"
//	tail -f app.log | relex match --config lexers.yaml --lexer level --output yaml
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cmd := newRootCmd(productionLogger)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
