// Package main is a tiny probe for container HEALTHCHECK: it exits 0 when
// the local server answers /livez with 200.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/garyellow/protein-linebot-go/internal/config"
)

func main() {
	os.Exit(probe(livezURL(os.Getenv(config.EnvPort))))
}

func livezURL(port string) string {
	if port == "" {
		port = config.DefaultPort
	}
	return fmt.Sprintf("http://localhost:%s/livez", port)
}

func probe(url string) int {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 1
	}
	return 0
}
