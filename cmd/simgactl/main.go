// Command simgactl is a thin HTTP client for a running "simga
// optimize --serve" process, mirroring the teacher's cmd/cmd/cmd.go
// httpGet/sendReq pattern against pkg/monitor's read-only endpoints
// instead of the teacher's job-CRUD API.
package main

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"os"

	"github.com/clustersim/simga/config"
	"github.com/urfave/cli/v2"
)

var baseURL = "http://localhost:" + config.Port

func main() {
	app := &cli.App{
		Name:  "simgactl",
		Usage: "inspect a running simga optimize --serve process",
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "print the current generation and population size",
				Action: func(c *cli.Context) error { return printEndpoint("/status") },
			},
			{
				Name:   "best",
				Usage:  "print the best chromosome found so far",
				Action: func(c *cli.Context) error { return printEndpoint("/best") },
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printEndpoint(path string) error {
	body, err := httpGet(baseURL + path)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func httpGet(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return ioutil.ReadAll(resp.Body)
}
