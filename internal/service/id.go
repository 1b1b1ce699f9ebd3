package service

import (
	"context"
	"errors"
	"fmt"

	"sqids/internal/domain"
)

var ErrIDNotFound = errors.New("id not found")

type IDService struct {
	codec    Codec
	cache    Cache
	recorder BusinessRecorder
}

func NewIDService(codec Codec, cache Cache, recorder BusinessRecorder) *IDService {
	return &IDService{
		codec:    codec,
		cache:    cache,
		recorder: recorder,
	}
}

func (s *IDService) Encode(_ context.Context, numbers []uint64) (*domain.EncodeResponse, error) {
	id, err := s.codec.Encode(numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode numbers: %w", err)
	}

	s.cache.Set(id, numbers)
	s.recorder.RecordBusiness("ids_encoded", 1, nil)

	return &domain.EncodeResponse{ID: id, Numbers: numbers}, nil
}

func (s *IDService) EncodeBatch(ctx context.Context, items [][]uint64) ([]domain.EncodeResponse, error) {
	if len(items) == 0 {
		return nil, nil
	}

	responses := make([]domain.EncodeResponse, len(items))
	for i, numbers := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		id, err := s.codec.Encode(numbers)
		if err != nil {
			return nil, fmt.Errorf("failed to encode item %d: %w", i, err)
		}
		s.cache.Set(id, numbers)
		responses[i] = domain.EncodeResponse{ID: id, Numbers: numbers}
	}

	s.recorder.RecordBusiness("ids_encoded", float64(len(items)), map[string]string{"mode": "batch"})

	return responses, nil
}

// Decode returns ErrIDNotFound for IDs that are not canonical encoder output.
func (s *IDService) Decode(_ context.Context, id string) (*domain.DecodeResponse, error) {
	if numbers, ok := s.cache.Get(id); ok {
		s.recorder.RecordBusiness("cache_hit", 1, nil)
		s.recorder.RecordBusiness("ids_decoded", 1, nil)
		return &domain.DecodeResponse{ID: id, Numbers: numbers}, nil
	}
	s.recorder.RecordBusiness("cache_miss", 1, nil)

	numbers := s.codec.Decode(id)
	if len(numbers) == 0 {
		s.recorder.RecordBusiness("decode_rejected", 1, nil)
		return nil, ErrIDNotFound
	}

	s.cache.Set(id, numbers)
	s.recorder.RecordBusiness("ids_decoded", 1, nil)

	return &domain.DecodeResponse{ID: id, Numbers: numbers}, nil
}
