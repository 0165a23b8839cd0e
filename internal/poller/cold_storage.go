package poller

import (
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"

	"hrvd/internal/poller/interfaces"
	"hrvd/internal/providers"
	"hrvd/internal/structures"
)

const coldFileName = "series.cold.zst"

// coldFile is the on-disk snapshot of the series cache. Payloads are
// kept as raw JSON so a restored series stays byte-identical to the
// provider response it was fetched from.
type coldFile struct {
	Series  map[string]json.RawMessage `json:"series"`
	SavedAt time.Time                  `json:"saved_at"`
}

// ColdStorage snapshots the in-memory HRV series cache to a single
// zstd-compressed file so a restart can serve stale-but-available data
// when restore-on-start is enabled.
type ColdStorage struct {
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewColdStorage(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *ColdStorage {
	return &ColdStorage{
		dir:        conf.Persistence.ColdDir,
		compressor: compressor,
		logger:     logger,
	}
}

// Snapshot serializes, compresses and atomically writes the given
// series mapping.
func (cs *ColdStorage) Snapshot(series map[string][]byte) error {
	cf := coldFile{
		Series:  make(map[string]json.RawMessage, len(series)),
		SavedAt: time.Now(),
	}
	for user, payload := range series {
		cf.Series[user] = json.RawMessage(payload)
	}

	jsonData, err := json.Marshal(cf)
	if err != nil {
		return err
	}

	compressed, err := cs.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cs.dir, 0755); err != nil {
		return err
	}

	path := cs.filePath()
	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, compressed, 0644); err != nil {
		return err
	}

	return os.Rename(tmpFile, path)
}

// Restore reads the snapshot back. A missing file yields a nil mapping
// and no error.
func (cs *ColdStorage) Restore() (map[string][]byte, error) {
	data, err := os.ReadFile(cs.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	decompressed, err := cs.compressor.Decompress(data)
	if err != nil {
		return nil, err
	}

	var cf coldFile
	if err := json.Unmarshal(decompressed, &cf); err != nil {
		return nil, err
	}

	series := make(map[string][]byte, len(cf.Series))
	for user, payload := range cf.Series {
		series[user] = []byte(payload)
	}
	cs.logger.Infof(providers.TypeApp, "Restored %d cached series from cold storage (saved %s)", len(series), cf.SavedAt.Format(time.RFC3339))
	return series, nil
}

// Close releases resources held by the compressor.
func (cs *ColdStorage) Close() {
	cs.compressor.Close()
}

func (cs *ColdStorage) filePath() string {
	return filepath.Join(cs.dir, coldFileName)
}
