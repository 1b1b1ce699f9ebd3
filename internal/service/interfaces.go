package service

type Codec interface {
	Encode(numbers []uint64) (string, error)
	Decode(id string) []uint64
}

type Cache interface {
	Get(id string) ([]uint64, bool)
	Set(id string, numbers []uint64)
}

type BusinessRecorder interface {
	RecordBusiness(name string, value float64, labels map[string]string)
}
