package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/parentalrights/complaint-portal-api/api/handlers"

	"go.uber.org/zap"

	"github.com/parentalrights/complaint-portal-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	err := a.Initialize() //initialize database and router
	if err != nil {
		log.Fatal(err)
	}

	a.Scheduler.Start()
	defer a.Scheduler.Stop()

	zap.S().Infow("complaint-portal-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
