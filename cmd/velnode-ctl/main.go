package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rmax-ai/velnode/pkg/client"
)

const usage = "Usage: velnode-ctl templates|graph|state|events [limit]|report <events|connections|activity> [limit]"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	endpoint := os.Getenv("VELNODE_ENDPOINT")
	c := client.NewClient(endpoint)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var (
		out any
		err error
	)
	switch os.Args[1] {
	case "templates":
		out, err = c.Templates(ctx)
	case "graph":
		out, err = c.Graph(ctx)
	case "state":
		out, err = c.State(ctx)
	case "events":
		limit := 50
		if len(os.Args) > 2 {
			limit, err = strconv.Atoi(os.Args[2])
			if err != nil || limit <= 0 {
				fmt.Printf("Invalid limit: %s\n", os.Args[2])
				os.Exit(1)
			}
		}
		out, err = c.GetEvents(ctx, limit)
	case "report":
		if len(os.Args) < 3 {
			fmt.Println(usage)
			os.Exit(1)
		}
		limit := 0
		if len(os.Args) > 3 {
			limit, err = strconv.Atoi(os.Args[3])
			if err != nil || limit <= 0 {
				fmt.Printf("Invalid limit: %s\n", os.Args[3])
				os.Exit(1)
			}
		}
		body, err := c.Report(ctx, os.Args[2], limit)
		if err != nil {
			fmt.Printf("Error fetching report: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(body)
		return
	default:
		fmt.Println(usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error contacting editor: %v\n", err)
		fmt.Println("Is velnode running with -inspect-addr?")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Printf("Error encoding response: %v\n", err)
		os.Exit(1)
	}
}
