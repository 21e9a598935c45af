package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AgPipeline/ua-cwl-transformer/pkg/logger"
)

// Check is the request-specific metadata handed to a transformer run. It is
// produced by the hosting pipeline and consumed read-only here.
type Check struct {
	Timestamp     string
	Season        string
	Experiment    string
	ContainerName string
	TriggerName   string
	WorkingFolder string
	Context       map[string]interface{}
	ListFiles     func() []string
}

type fileCheck struct {
	Timestamp     string                 `json:"timestamp"`
	Season        string                 `json:"season"`
	Experiment    string                 `json:"experiment"`
	ContainerName string                 `json:"container_name"`
	TriggerName   string                 `json:"trigger_name"`
	WorkingFolder string                 `json:"working_folder"`
	Files         []string               `json:"files"`
	Context       map[string]interface{} `json:"context_md"`
}

// Load reads check metadata from a JSON file. When the file does not carry
// an explicit file list, ListFiles enumerates the working folder instead.
func Load(path string) (Check, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Check{}, fmt.Errorf("reading metadata file: %w", err)
	}

	var fc fileCheck
	if err := json.Unmarshal(data, &fc); err != nil {
		return Check{}, fmt.Errorf("parsing metadata file %s: %w", path, err)
	}
	if fc.Timestamp == "" {
		return Check{}, fmt.Errorf("unable to locate timestamp in metadata file %s", path)
	}

	md := Check{
		Timestamp:     fc.Timestamp,
		Season:        fc.Season,
		Experiment:    fc.Experiment,
		ContainerName: fc.ContainerName,
		TriggerName:   fc.TriggerName,
		WorkingFolder: fc.WorkingFolder,
		Context:       fc.Context,
	}

	if len(fc.Files) > 0 {
		files := append([]string(nil), fc.Files...)
		md.ListFiles = func() []string { return files }
	} else {
		folder := fc.WorkingFolder
		md.ListFiles = func() []string { return listFolder(folder) }
	}
	return md, nil
}

func listFolder(folder string) []string {
	entries, err := os.ReadDir(folder)
	if err != nil {
		logger.Warn("unable to list working folder %s: %v", folder, err)
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(folder, entry.Name()))
	}
	return files
}

// RecursiveSearch performs a depth-first search for the key in the metadata
// and returns the found value. If a special key is given and the key is
// found beneath it, that value takes precedence over matches found anywhere
// else in the metadata.
//
// The Python pipeline's search returned the plainly found value when both
// were present, contradicting its own documentation; here the special key
// wins. Ports relying on the old behavior should pass an empty special key.
func RecursiveSearch(metadataList []map[string]interface{}, searchKey string, specialKey string) string {
	var topFound string
	topSet := false
	var specialFound string

	for _, md := range metadataList {
		for key, value := range md {
			if key == searchKey {
				topFound = toString(value)
				topSet = true
			}
			if specialKey != "" && key == specialKey {
				if sub, ok := value.(map[string]interface{}); ok {
					if found := RecursiveSearch([]map[string]interface{}{sub}, searchKey, specialKey); found != "" {
						specialFound = found
					}
				}
				continue
			}
			if sub, ok := value.(map[string]interface{}); ok {
				if found := RecursiveSearch([]map[string]interface{}{sub}, searchKey, specialKey); found != "" {
					topFound = found
					topSet = true
				}
			}
		}
	}

	if specialFound != "" {
		return specialFound
	}
	if topSet {
		return topFound
	}
	return ""
}

// FindValue returns the first found value associated with any of the keys
func FindValue(metadataList []map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if value := RecursiveSearch(metadataList, key, ""); value != "" {
			return value
		}
	}
	return ""
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// SplitTimestamp returns the date (YYYY-MM-DD) and the local time
// (YYYY-MM-DDTHH:MM:SS) derived from the passed in timestamp. A trailing
// UTC offset is stripped before parsing.
func SplitTimestamp(isoTimestamp string) (string, string, error) {
	working := isoTimestamp
	dateSep := strings.Index(isoTimestamp, "T")
	offsetSep := strings.LastIndex(isoTimestamp, "-")
	if dateSep >= 0 && dateSep < offsetSep {
		working = isoTimestamp[:offsetSep]
	}

	ts, err := time.Parse("2006-01-02T15:04:05", working)
	if err != nil {
		return "", "", fmt.Errorf("parsing timestamp %q: %w", isoTimestamp, err)
	}
	return ts.Format("2006-01-02"), ts.Format("2006-01-02T15:04:05"), nil
}
