package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spencer-p/trmnltides/pkg/config"
	"github.com/spencer-p/trmnltides/pkg/data"
	"github.com/spencer-p/trmnltides/pkg/report"
)

func main() {
	env, err := config.Load()
	if err != nil {
		log.Fatal(err.Error())
	}

	var ledger *data.Ledger
	if env.DatabaseDSN != "" {
		if ledger, err = data.Open(env.DatabaseDSN); err != nil {
			log.Fatal(err.Error())
		}
	}

	runner, err := report.New(env, ledger)
	if err != nil {
		log.Fatal(err.Error())
	}

	rep, err := runner.Run(context.Background())
	if err != nil {
		log.Printf("report failed: %v", err)
		os.Exit(1)
	}

	fmt.Println(rep.Series.String())
	fmt.Println(rep.Payload.Weather.String())
}
