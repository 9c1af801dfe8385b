package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := newRootCmd().Execute(); err != nil {
		log.WithError(err).Fatal("testenv failed")
	}
}
