package main

import (
	"flag"

	api "yatube/api"
	Logger "yatube/api/utils/log"
)

func main() {
	fixture := flag.String("seed", "", "load a YAML fixture into the database and exit")
	flag.Parse()

	if *fixture != "" {
		if err := api.Seed(*fixture); err != nil {
			Logger.Log.WithError(err).Fatal("seed failed")
		}
		return
	}
	if err := api.Run(); err != nil {
		Logger.Log.WithError(err).Fatal("server stopped")
	}
}
