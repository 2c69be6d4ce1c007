// Command fluid copies, moves and removes files across local disks and
// object stores.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gobeaver/fluidpath/internal/cli"

	_ "github.com/gobeaver/fluidpath/driver/azure"
	_ "github.com/gobeaver/fluidpath/driver/gcs"
	_ "github.com/gobeaver/fluidpath/driver/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.ExitCode(err))
	}
}
