package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"PerpParity/internal/domain/models"
	domrepo "PerpParity/internal/domain/repository"
	pkgkafka "PerpParity/pkg/kafka"
	"PerpParity/pkg/util"
)

// KafkaBarsHandler consumes daily bars published by the acquisition
// collaborators and upserts them into storage.
type KafkaBarsHandler struct {
	topic    string
	store    domrepo.SeriesStore
	metrics  domrepo.Metrics
	validate *validator.Validate
}

func NewKafkaBarsHandler(topic string, store domrepo.SeriesStore, metrics domrepo.Metrics) *KafkaBarsHandler {
	return &KafkaBarsHandler{
		topic:    topic,
		store:    store,
		metrics:  metrics,
		validate: validator.New(),
	}
}

func (h *KafkaBarsHandler) Topic() string { return h.topic }

func (h *KafkaBarsHandler) Handle(ctx context.Context, b []byte) error {
	var bar models.DailyBar
	if err := json.Unmarshal(b, &bar); err != nil {
		h.metrics.RecordError("bars_unmarshal")
		return err
	}
	if err := h.validate.Struct(&bar); err != nil {
		h.metrics.RecordError("bars_validate")
		return err
	}
	bar.Date = util.Day(bar.Date)

	start := time.Now()
	err := h.store.StoreBar(ctx, &bar)
	h.metrics.RecordLatency("bar_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("bars_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaBarsHandler)(nil)
