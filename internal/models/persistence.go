package models

import (
	"os"

	json "github.com/goccy/go-json"

	"hrvd/internal/structures"
)

// FilePersister writes the token mapping to a single JSON file,
// atomically via tmp file + rename. The file holds the entire mapping:
// {"user1":{"accessToken":...,"refreshToken":...,"expiry":<ms>},...}
type FilePersister struct {
	path string
}

func NewFilePersister(conf *structures.Config) TokenPersisterInterface {
	return &FilePersister{path: conf.Persistence.TokenFile}
}

func (p *FilePersister) Save(records map[string]TokenRecord) error {
	jsonData, err := json.Marshal(records)
	if err != nil {
		return err
	}

	tmpFile := p.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(jsonData)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, p.path)
}

// Load reads the persisted mapping. A missing file is not an error and
// yields an empty mapping.
func (p *FilePersister) Load() (map[string]TokenRecord, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]TokenRecord), nil
		}
		return nil, err
	}

	records := make(map[string]TokenRecord)
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}
