package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Station describes where the rainfall was observed.
type Station struct {
	ID        string   `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name,omitempty"`
	Latitude  *float64 `yaml:"latitude" json:"latitude,omitempty"`
	Longitude *float64 `yaml:"longitude" json:"longitude,omitempty"`
}

var coordinatesInName = regexp.MustCompile(`^rainfall_data_(-?\d+(?:\.\d+)?)_(-?\d+(?:\.\d+)?)\.csv$`)

// LoadStationFile reads a YAML station sidecar. The configured id wins over the file's.
func LoadStationFile(filePath, stationID string) (Station, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Station{}, fmt.Errorf("read station file %q: %w", filePath, err)
	}

	var st Station
	if err := yaml.Unmarshal(data, &st); err != nil {
		return Station{}, fmt.Errorf("parse station file %q: %w", filePath, err)
	}
	if stationID != "" {
		st.ID = stationID
	}
	if st.Latitude != nil && (*st.Latitude < -90 || *st.Latitude > 90) {
		return Station{}, fmt.Errorf("station latitude %v out of range", *st.Latitude)
	}
	if st.Longitude != nil && (*st.Longitude < -180 || *st.Longitude > 180) {
		return Station{}, fmt.Errorf("station longitude %v out of range", *st.Longitude)
	}
	return st, nil
}

// InferStation derives station coordinates from a dataset name shaped like
// rainfall_data_<lat>_<lon>.csv. Other names yield a station without coordinates.
func InferStation(stationID, datasetName string) Station {
	st := Station{ID: stationID}
	base := path.Base(strings.ReplaceAll(datasetName, "\\", "/"))

	m := coordinatesInName.FindStringSubmatch(base)
	if m == nil {
		st.Name = strings.TrimSuffix(base, path.Ext(base))
		return st
	}
	lat, latErr := strconv.ParseFloat(m[1], 64)
	lon, lonErr := strconv.ParseFloat(m[2], 64)
	if latErr != nil || lonErr != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return st
	}
	st.Name = fmt.Sprintf("Station at %s, %s", m[1], m[2])
	st.Latitude = &lat
	st.Longitude = &lon
	return st
}

// Fingerprint is the hex SHA-256 of the raw dataset bytes.
func Fingerprint(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
