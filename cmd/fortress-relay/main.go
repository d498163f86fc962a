package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/fortresschess/fortress/pkg/relay"
	"github.com/seekerror/logw"
)

var port = flag.Int("port", 8080, "Listen port")

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: fortress-relay [options]

fortress-relay is the stateless WebSocket relay for the fortress variant. It
pairs incoming connections two at a time, assigns each pair its colours, and
forwards wire messages verbatim between them.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	addr := fmt.Sprintf(":%d", *port)
	mux := http.NewServeMux()
	mux.Handle("/", relay.New())

	logw.Infof(ctx, "Listening on %v", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logw.Exitf(ctx, "Listen failed: %v", err)
	}
}
