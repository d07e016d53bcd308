package main

import (
	"fmt"
	"os"

	"github.com/AmateurECE/dev-proxy/cmd"
)

func main() {
	config, err := cmd.Load(os.Environ())
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	client := cmd.HealthCheckClient(config)

	if err := cmd.CheckHealth(client, config.ListenAddress); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	fmt.Println("devprox is responding")
}
