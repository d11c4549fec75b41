// Command stratacms runs the Leena Group CMS API server.
package main

import (
	"context"

	"github.com/dalemusser/waffle/app"

	"github.com/dalemusser/stratacms/internal/app/bootstrap"
)

func main() {
	app.Run(context.Background(), bootstrap.Hooks)
}
