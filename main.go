package main

import (
	"log"

	"learnhub/config"
	"learnhub/database"
	"learnhub/services"
	"learnhub/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	platform := services.NewPlatform(database.Database.Db)

	notifier := utils.EmailNotifier{}
	platform.Commerce.Notifier = notifier
	platform.Progress.Notifier = notifier
	platform.Progress.Generator = utils.NewCertificateClient()
	platform.Community.Notifier = notifier

	utils.InitializePaymentScheduler()

	log.Println("learnhub core is up")
	select {}
}
