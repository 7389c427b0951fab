package coverage

// Package coverage holds the service-center dataset: the regions and
// districts the delivery network serves. Booking validation consults it to
// decide same-district versus cross-district pricing, and the CLI renders
// it for the "where do you deliver" question.

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	apperrors "github.com/profast/parcel-client/internal/errors"
)

// Center is one service center covering a district.
type Center struct {
	Region       string   `json:"region"`
	District     string   `json:"district"`
	City         string   `json:"city,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	CoveredAreas []string `json:"covered_area"`
}

// Dataset is an indexed, read-only view over the service centers.
type Dataset struct {
	centers   []Center
	byRegion  map[string][]string
	districts map[string]Center // lowercased district -> center
	regions   []string
}

// New indexes a slice of centers. Input order decides region order.
func New(centers []Center) (*Dataset, error) {
	d := &Dataset{
		centers:   centers,
		byRegion:  make(map[string][]string),
		districts: make(map[string]Center, len(centers)),
	}
	for _, c := range centers {
		if c.Region == "" || c.District == "" {
			return nil, apperrors.Validationf("service center %q/%q: region and district are required", c.Region, c.District)
		}
		key := strings.ToLower(c.District)
		if _, dup := d.districts[key]; dup {
			return nil, apperrors.Validationf("duplicate service center for district %q", c.District)
		}
		d.districts[key] = c
		if _, seen := d.byRegion[c.Region]; !seen {
			d.regions = append(d.regions, c.Region)
		}
		d.byRegion[c.Region] = append(d.byRegion[c.Region], c.District)
	}
	return d, nil
}

// Load parses a JSON array of centers.
func Load(r io.Reader) (*Dataset, error) {
	var centers []Center
	if err := json.NewDecoder(r).Decode(&centers); err != nil {
		return nil, fmt.Errorf("parse service centers: %w", err)
	}
	return New(centers)
}

// LoadFile loads a dataset from a JSON file.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open service centers: %w", err)
	}
	defer f.Close() //nolint:errcheck
	return Load(f)
}

// Regions returns the regions in dataset order.
func (d *Dataset) Regions() []string {
	return append([]string(nil), d.regions...)
}

// DistrictsByRegion returns the districts a region's centers cover, sorted.
func (d *Dataset) DistrictsByRegion(region string) []string {
	out := append([]string(nil), d.byRegion[region]...)
	sort.Strings(out)
	return out
}

// HasDistrict reports whether a district is served. Case-insensitive.
func (d *Dataset) HasDistrict(district string) bool {
	_, ok := d.districts[strings.ToLower(district)]
	return ok
}

// Center returns the service center for a district.
func (d *Dataset) Center(district string) (Center, bool) {
	c, ok := d.districts[strings.ToLower(district)]
	return c, ok
}

// Search finds the first center whose district contains the query,
// case-insensitive. Mirrors the coverage map's search box.
func (d *Dataset) Search(query string) (Center, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Center{}, false
	}
	for _, c := range d.centers {
		if strings.Contains(strings.ToLower(c.District), q) {
			return c, true
		}
	}
	return Center{}, false
}

// Len returns the number of service centers.
func (d *Dataset) Len() int {
	return len(d.centers)
}
