// atlastool unwraps OBJ meshes into UV atlases using the native xatlas
// library.
//
// Usage:
//
//	atlastool unwrap [--image] [-o dir] model.obj...
//	atlastool info model.obj...
//	atlastool config show|save [path]
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Faultbox/xatlas-go/internal/cli"
	_ "github.com/Faultbox/xatlas-go/pkg/xatlas/cxatlas"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := cli.New().ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}
