package main

import "github.com/MarcMan710/PosTask/internal/app"

func main() {
	app.InitDefaultLogger()
	app.MustReadEnv()
	app.MustInitApplicationLogger()

	app.MustConnectPostgres()
	defer app.DisconnectPostgres()

	app.InitMailer()
	app.InitServices()

	app.StartEventConsumer()
	defer app.StopEventConsumer()

	app.MustStartDispatcher()
	defer app.StopDispatcher()

	app.MustListenAndServeHTTP()
}
