package attack

import (
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync/atomic"

	vegeta "github.com/tsenart/vegeta/v12/lib"
)

const bypassHeader = "X-Rate-Limit-Bypass"

var numberCounter atomic.Uint64

func headers(bypassSecret string, contentType bool) http.Header {
	header := http.Header{}
	if contentType {
		header.Set("Content-Type", "application/json")
	}
	if bypassSecret != "" {
		header.Set(bypassHeader, bypassSecret)
	}
	return header
}

// EncodeTargeter posts sequences of numbersPerID fresh numbers to the
// encode endpoint.
func EncodeTargeter(baseURL string, numbersPerID int, bypassSecret string) vegeta.Targeter {
	header := headers(bypassSecret, true)
	url := baseURL + "/api/v1/encode"
	numbersPerID = max(1, numbersPerID)

	return func(t *vegeta.Target) error {
		t.Method = http.MethodPost
		t.URL = url
		t.Header = header

		body := make([]byte, 0, 16+21*numbersPerID)
		body = append(body, `{"numbers":[`...)
		for i := range numbersPerID {
			if i > 0 {
				body = append(body, ',')
			}
			body = strconv.AppendUint(body, numberCounter.Add(1), 10)
		}
		body = append(body, "]}"...)
		t.Body = body
		return nil
	}
}

// DecodeTargeter requests random IDs from ids.
func DecodeTargeter(baseURL string, ids []string, bypassSecret string) vegeta.Targeter {
	header := headers(bypassSecret, false)
	prefix := baseURL + "/api/v1/decode/"

	return func(t *vegeta.Target) error {
		t.Method = http.MethodGet
		t.URL = prefix + ids[rand.IntN(len(ids))]
		t.Header = header
		t.Body = nil
		return nil
	}
}

func MixedTargeter(baseURL string, ids []string, numbersPerID int, encodeRatio float64, bypassSecret string) vegeta.Targeter {
	encodeTarget := EncodeTargeter(baseURL, numbersPerID, bypassSecret)
	decodeTarget := DecodeTargeter(baseURL, ids, bypassSecret)

	return func(t *vegeta.Target) error {
		if rand.Float64() < encodeRatio {
			return encodeTarget(t)
		}
		return decodeTarget(t)
	}
}
