package einvoice

import (
	"strings"

	"github.com/rezonia/einvoice-converter/internal/model"
)

// Profile is a conformance level of the CII syntax
type Profile struct {
	Name        string
	GuidelineID string
	// Lines reports whether line items are written
	Lines bool
}

var (
	ProfileMinimum   = Profile{"MINIMUM", "urn:factur-x.eu:1p0:minimum", false}
	ProfileBasicWL   = Profile{"BASICWL", "urn:factur-x.eu:1p0:basicwl", false}
	ProfileBasic     = Profile{"BASIC", "urn:cen.eu:en16931:2017#compliant#urn:factur-x.eu:1p0:basic", true}
	ProfileEN16931   = Profile{"EN16931", "urn:cen.eu:en16931:2017", true}
	ProfileExtended  = Profile{"EXTENDED", "urn:cen.eu:en16931:2017#conformant#urn:factur-x.eu:1p0:extended", true}
	ProfileXRechnung = Profile{"XRECHNUNG", "urn:cen.eu:en16931:2017#compliant#urn:xeinkauf.de:kosit:xrechnung_3.0", true}
)

// Profiles lists every known profile
var Profiles = []Profile{
	ProfileMinimum,
	ProfileBasicWL,
	ProfileBasic,
	ProfileEN16931,
	ProfileExtended,
	ProfileXRechnung,
}

// ProfileByName resolves a profile case-insensitively
func ProfileByName(name string) (Profile, error) {
	for _, p := range Profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return Profile{}, model.NewProfileError(name)
}

// ProfileByGuideline resolves a profile from its guideline identifier
func ProfileByGuideline(id string) (Profile, bool) {
	for _, p := range Profiles {
		if p.GuidelineID == id {
			return p, true
		}
	}
	if strings.Contains(id, "xrechnung") {
		return ProfileXRechnung, true
	}
	return Profile{}, false
}
