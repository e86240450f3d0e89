// Command seasum prints or checks SeaHash checksums of files, standard input
// and S3 or MinIO objects.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hupe1980/seahash/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.New().Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
