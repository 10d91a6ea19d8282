package iapp

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/afero"
)

// Manifest is the computed.json file the TEE worker reads after the run.
type Manifest struct {
	DeterministicOutputPath string `json:"deterministic-output-path"`
	ErrorMessage            string `json:"error-message,omitempty"`
}

func writeManifest(fs afero.Fs, path string, m Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "iapp: encode manifest")
	}
	if err := writeFileAtomic(fs, path, data); err != nil {
		return eris.Wrap(err, "iapp: write manifest")
	}
	return nil
}
