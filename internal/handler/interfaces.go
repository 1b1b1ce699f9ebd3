package handler

import (
	"context"
	"encoding/json"

	"sqids/internal/domain"
)

type IDService interface {
	Encode(ctx context.Context, numbers []uint64) (*domain.EncodeResponse, error)
	EncodeBatch(ctx context.Context, items [][]uint64) ([]domain.EncodeResponse, error)
	Decode(ctx context.Context, id string) (*domain.DecodeResponse, error)
}

type Validator interface {
	ParseNumbers(raw []json.Number) ([]uint64, error)
	ParseBatch(items [][]json.Number) ([][]uint64, error)
	ValidateID(id string) error
}

// Describer reports the encoder settings served by /info.
type Describer interface {
	AlphabetSize() int
	MinLength() int
	BlocklistSize() int
	MinValue() uint64
	MaxValue() uint64
}

type BusinessRecorder interface {
	RecordBusiness(name string, value float64, labels map[string]string)
}
