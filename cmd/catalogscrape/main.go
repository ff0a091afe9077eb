package main

import (
	"catalogscrape/cmd/catalogscrape/commands"
	"catalogscrape/lib/serviceutil"
	"context"
)

func main() {
	ctx := serviceutil.SignalContext(context.Background())
	commands.ExecuteContext(ctx)
}
