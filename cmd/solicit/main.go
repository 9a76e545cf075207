// Command solicit queues a proactive review request for one person:
//
//	solicit <person_id>
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/config"
	"github.com/xavierca1/messenger-reviews/internal/infra/queue"
	"github.com/xavierca1/messenger-reviews/internal/logger"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: solicit <person_id>")
		os.Exit(2)
	}
	personID, err := strconv.ParseInt(os.Args[1], 10, 64)
	if err != nil || personID <= 0 {
		fmt.Fprintf(os.Stderr, "invalid person_id %q\n", os.Args[1])
		os.Exit(2)
	}

	cfg, err := config.LoadQueue()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := logger.New(cfg.LogLevel)

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
	if err != nil {
		log.WithError(err).Fatal("rabbitmq unavailable")
	}
	defer rabbitMQ.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := queue.NewProducer(rabbitMQ.Ch).PublishSolicitation(ctx, personID); err != nil {
		log.WithError(err).WithField("person_id", personID).Error("failed to queue solicitation")
		rabbitMQ.Close()
		os.Exit(1)
	}
	log.WithField("person_id", personID).Info("solicitation queued")
}
