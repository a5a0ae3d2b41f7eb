package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Dicklesworthstone/gv/pkg/model"
)

// ErrCorruptData reports a data file that exists but does not hold a JSON array of grievances.
var ErrCorruptData = errors.New("corrupt grievance data")

// DataDirName and DataFileName locate the data file relative to the program.
const (
	DataDirName  = "data"
	DataFileName = "grievances.json"
)

// DefaultDataPath returns data/grievances.json next to the running executable.
// If the executable cannot be located the working directory is used instead.
func DefaultDataPath() string {
	base, err := executableDir()
	if err != nil {
		base, err = os.Getwd()
		if err != nil {
			base = "."
		}
	}
	return filepath.Join(base, DataDirName, DataFileName)
}

func executableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// LoadGrievancesFromFile reads grievances directly from a specific JSON file path.
// A missing file surfaces as fs.ErrNotExist.
func LoadGrievancesFromFile(path string) ([]model.Grievance, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open grievances file: %w", err)
	}
	defer file.Close()

	grievances, err := ParseGrievances(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return grievances, nil
}

// ParseGrievances decodes a JSON array of grievances.
// Empty input is an empty collection; anything that is not an array is ErrCorruptData.
func ParseGrievances(r io.Reader) ([]model.Grievance, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading grievances: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []model.Grievance{}, nil
	}
	if trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrCorruptData)
	}

	var grievances []model.Grievance
	if err := json.Unmarshal(trimmed, &grievances); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if grievances == nil {
		grievances = []model.Grievance{}
	}
	return grievances, nil
}
