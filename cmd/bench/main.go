package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jujunwang/Minidis/bench"
	"github.com/spf13/pflag"
)

func main() {
	addr := pflag.StringP("addr", "a", "127.0.0.1:5555", "server address")
	clients := pflag.IntP("clients", "c", 50, "number of parallel connections")
	requests := pflag.IntP("requests", "n", 100000, "requests per command")
	keySpace := pflag.IntP("keyspace", "k", 10000, "number of distinct keys")
	timeout := pflag.Duration("timeout", 5*time.Second, "timeout of a single request")
	pflag.Parse()

	ctx := context.Background()
	runner := bench.NewRunner(ctx, bench.Config{
		Addr:     *addr,
		Clients:  *clients,
		Requests: *requests,
		KeySpace: *keySpace,
		Timeout:  *timeout,
	})
	defer runner.Close(ctx)

	failed := false
	for _, result := range runner.RunAll(ctx, bench.DefaultScenarios(*keySpace)) {
		fmt.Println(result)
		if result.Errors > 0 {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
