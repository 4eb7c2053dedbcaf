package scan_test

import (
	"context"
	"fmt"
	"log"

	"github.com/YushiOMOTE/redis-ac/pkg/client"
	"github.com/YushiOMOTE/redis-ac/pkg/client/scan"
)

func ExampleStream_Collect() {
	ctx := context.Background()
	conn, err := client.Dial(ctx, client.Options{Addr: "127.0.0.1:6379"})
	if err != nil {
		log.Fatal(err)
	}

	conn, keys, err := scan.NewStrings(conn, scan.Keys("key*", 0)).Collect(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	fmt.Println(keys)
}

func ExampleStream_Next() {
	ctx := context.Background()
	conn, err := client.Dial(ctx, client.Options{Addr: "127.0.0.1:6379"})
	if err != nil {
		log.Fatal(err)
	}

	s := scan.NewStrings(conn, scan.HashFields("myhash", "", 0))
	for {
		step, ok, err := s.Next(ctx)
		if err != nil {
			log.Fatal(err)
		}
		if !ok {
			break
		}
		if step.HasItem {
			fmt.Println(step.Item)
		}
		if step.Conn != nil {
			// Last step: the connection is ours again.
			conn = step.Conn
		}
	}
	conn.Close()
}
