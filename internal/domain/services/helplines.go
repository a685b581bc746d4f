package services

import (
	"fmt"
	"sort"
	"strings"

	"veritas-lab/internal/domain/models"
)

func email(s string) *string { return &s }

// defaultHelplines is the region table shipped with the app
var defaultHelplines = map[string][]models.Helpline{
	"Delhi": {
		{Name: "Delhi Commission for Women", Number: "181", Type: "Government", Email: email("helpline@dcw.gov.in")},
		{Name: "Delhi Police Women Helpline", Number: "1091", Type: "Police"},
	},
	"Mumbai": {
		{Name: "Maharashtra Women Commission", Number: "022-26592707", Type: "Government", Email: email("mscw.support@maharashtra.gov.in")},
		{Name: "Mumbai Police Women Helpline", Number: "103", Type: "Police"},
	},
	"Bangalore": {
		{Name: "Vanitha Sahayavani", Number: "1091", Type: "Police"},
		{Name: "Karnataka Women Commission", Number: "080-22100435", Type: "Government", Email: email("kswc@karnataka.gov.in")},
	},
}

// HelplineDirectory looks up emergency contacts by region
type HelplineDirectory struct {
	regions map[string][]models.Helpline
}

// NewHelplineDirectory returns the built-in directory
func NewHelplineDirectory() *HelplineDirectory {
	return &HelplineDirectory{regions: defaultHelplines}
}

// Regions lists the known regions alphabetically
func (d *HelplineDirectory) Regions() []string {
	regions := make([]string, 0, len(d.regions))
	for r := range d.regions {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}

// All returns the full table
func (d *HelplineDirectory) All() map[string][]models.Helpline {
	return d.regions
}

// ForRegion matches region case-insensitively
func (d *HelplineDirectory) ForRegion(region string) ([]models.Helpline, error) {
	for name, lines := range d.regions {
		if strings.EqualFold(name, strings.TrimSpace(region)) {
			return lines, nil
		}
	}
	return nil, fmt.Errorf("region %q: %w", region, models.ErrNotFound)
}
