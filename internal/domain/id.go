package domain

import "encoding/json"

type EncodeRequest struct {
	Numbers []json.Number `json:"numbers"`
}

type EncodeResponse struct {
	ID      string   `json:"id"`
	Numbers []uint64 `json:"numbers"`
}

type EncodeBatchRequest struct {
	Items [][]json.Number `json:"items"`
}

type EncodeBatchResponse struct {
	IDs []EncodeResponse `json:"ids"`
}

type DecodeResponse struct {
	ID      string   `json:"id"`
	Numbers []uint64 `json:"numbers"`
}

type InfoResponse struct {
	AlphabetSize  int    `json:"alphabet_size"`
	MinLength     int    `json:"min_length"`
	BlocklistSize int    `json:"blocklist_size"`
	MinValue      uint64 `json:"min_value"`
	MaxValue      uint64 `json:"max_value"`
}
