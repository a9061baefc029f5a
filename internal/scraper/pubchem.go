package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/chemsafe/chemsafe/internal/chem"
)

// searchResultLimit caps how many CIDs a search resolves into full
// property records; each extra result costs another API round trip.
const searchResultLimit = 5

// basicProperties is the property list requested per compound.
//
//nolint:gochecknoglobals // Static request parameter
var basicProperties = strings.Join([]string{
	"IUPACName", "MolecularFormula", "MolecularWeight",
	"CanonicalSMILES", "IsomericSMILES", "InChI", "InChIKey",
	"XLogP", "ExactMass", "MonoisotopicMass", "TPSA", "Complexity", "Charge",
	"HBondDonorCount", "HBondAcceptorCount", "RotatableBondCount", "HeavyAtomCount",
}, ",")

// PubChem retrieves chemical data via the PUG REST and PUG View APIs.
type PubChem struct {
	*client
	baseURL string
	viewURL string
	logger  zerolog.Logger
}

// NewPubChem creates a PubChem scraper.
func NewPubChem(opts Options, logger zerolog.Logger) *PubChem {
	opts.applyDefaults()
	return &PubChem{
		client:  newClient(opts, logger),
		baseURL: opts.BaseURL,
		viewURL: opts.ViewURL,
		logger:  logger,
	}
}

// SearchChemical looks up compounds matching a name or identifier and
// returns basic info for the first few. An empty result is not an error.
func (p *PubChem) SearchChemical(ctx context.Context, query string) ([]SearchResult, error) {
	searchURL := fmt.Sprintf("%s/compound/name/%s/cids/JSON", p.baseURL, url.PathEscape(query))

	data, err := p.getJSON(ctx, searchURL)
	if err != nil {
		// PubChem reports an unknown name as 404, not as an empty list.
		if errors.Is(err, errNotFound) {
			p.logger.Debug().Str("query", query).Msg("no search results")
			return nil, nil
		}
		return nil, fmt.Errorf("searching for %q: %w", query, err)
	}

	var identifiers struct {
		IdentifierList struct {
			CID []int64 `json:"CID"`
		} `json:"IdentifierList"`
	}
	if err := json.Unmarshal(data, &identifiers); err != nil {
		return nil, fmt.Errorf("decoding search response for %q: %w", query, err)
	}

	cids := identifiers.IdentifierList.CID
	if len(cids) == 0 {
		p.logger.Debug().Str("query", query).Msg("no search results")
		return nil, nil
	}
	if len(cids) > searchResultLimit {
		cids = cids[:searchResultLimit]
	}

	var results []SearchResult
	for _, cid := range cids {
		props, err := p.properties(ctx, cid)
		if err != nil {
			p.logger.Warn().Err(err).Int64("cid", cid).Msg("skipping result without properties")
			continue
		}

		name := props.IUPACName
		if name == "" {
			name = "Unknown"
		}
		results = append(results, SearchResult{
			CID:             cid,
			Name:            name,
			Formula:         props.MolecularFormula,
			MolecularWeight: toFloat(props.MolecularWeight),
		})
	}

	return results, nil
}

// ExtractChemicalData assembles a full record for one compound: basic
// properties, the CAS number mined from synonyms, GHS classification, and
// the physical/hazard properties from the safety sections. Parsed
// value/unit pairs are derived from the raw property text where possible.
func (p *PubChem) ExtractChemicalData(ctx context.Context, cid int64) (*chem.Chemical, error) {
	props, err := p.properties(ctx, cid)
	if err != nil {
		return nil, fmt.Errorf("extracting data for CID %d: %w", cid, err)
	}

	// Per-section failures degrade to empty fields: a compound without a
	// GHS record is still worth storing.
	casNumber, err := p.casNumber(ctx, cid)
	if err != nil {
		p.logger.Warn().Err(err).Int64("cid", cid).Msg("no CAS number resolved")
	}

	ghs, err := p.ghsData(ctx, cid)
	if err != nil {
		p.logger.Warn().Err(err).Int64("cid", cid).Msg("no GHS data resolved")
	}

	hazards, err := p.hazardsData(ctx, cid)
	if err != nil {
		p.logger.Warn().Err(err).Int64("cid", cid).Msg("no hazards data resolved")
	}

	c := &chem.Chemical{
		CASNumber:       casNumber,
		Name:            props.IUPACName,
		Formula:         props.MolecularFormula,
		MolecularWeight: toFloat(props.MolecularWeight),

		CanonicalSMILES:  props.CanonicalSMILES,
		IsomericSMILES:   props.IsomericSMILES,
		InChI:            props.InChI,
		InChIKey:         props.InChIKey,
		XLogP:            toFloat(props.XLogP),
		ExactMass:        toFloat(props.ExactMass),
		MonoisotopicMass: toFloat(props.MonoisotopicMass),
		TPSA:             toFloat(props.TPSA),
		Complexity:       toFloat(props.Complexity),
		Charge:           toInt(props.Charge),

		HBondDonorCount:    toInt(props.HBondDonorCount),
		HBondAcceptorCount: toInt(props.HBondAcceptorCount),
		RotatableBondCount: toInt(props.RotatableBondCount),
		HeavyAtomCount:     toInt(props.HeavyAtomCount),

		PhysicalState: hazards.physicalState,
		Color:         hazards.color,
		Density:       hazards.density,
		MeltingPoint:  hazards.meltingPoint,
		BoilingPoint:  hazards.boilingPoint,
		FlashPoint:    hazards.flashPoint,
		Solubility:    hazards.solubility,
		VaporPressure: hazards.vaporPressure,

		HazardStatements:        ghs.hazardStatements,
		PrecautionaryStatements: ghs.precautionaryStatements,
		GHSPictograms:           ghs.pictograms,
		SignalWord:              ghs.signalWord,

		AcuteToxicityNotes: hazards.acuteToxicity,

		SourceURL:  fmt.Sprintf("https://pubchem.ncbi.nlm.nih.gov/compound/%d", cid),
		SourceName: "PubChem",
	}

	deriveParsedValues(c)
	chem.Enrich(c)
	return c, nil
}

// deriveParsedValues fills the numeric value/unit columns from the raw
// property text, converting to standard units where a conversion exists.
func deriveParsedValues(c *chem.Chemical) {
	parse := func(text, propertyType string) (*float64, string) {
		value, unit, ok := chem.ParsePhysicalProperty(text)
		if !ok {
			return nil, ""
		}
		value, unit = chem.ConvertToStandardUnit(value, unit, propertyType)
		return &value, unit
	}

	c.DensityValue, c.DensityUnit = parse(c.Density, "density")
	c.MeltingPointValue, c.MeltingPointUnit = parse(c.MeltingPoint, "temperature")
	c.BoilingPointValue, c.BoilingPointUnit = parse(c.BoilingPoint, "temperature")
	c.FlashPointValue, c.FlashPointUnit = parse(c.FlashPoint, "temperature")
	c.VaporPressureValue, c.VaporPressureUnit = parse(c.VaporPressure, "pressure")
}

// number decodes PUG REST numeric fields, which arrive sometimes as JSON
// numbers and sometimes as quoted strings (MolecularWeight and the mass
// fields, notably). Unparseable values decode as zero rather than failing
// the whole record.
type number float64

func (n *number) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = number(f)
	return nil
}

// compoundProperties mirrors one entry of a PUG REST PropertyTable.
type compoundProperties struct {
	CID                int64  `json:"CID"`
	IUPACName          string `json:"IUPACName"`
	MolecularFormula   string `json:"MolecularFormula"`
	MolecularWeight    number `json:"MolecularWeight"`
	CanonicalSMILES    string `json:"CanonicalSMILES"`
	IsomericSMILES     string `json:"IsomericSMILES"`
	InChI              string `json:"InChI"`
	InChIKey           string `json:"InChIKey"`
	XLogP              number `json:"XLogP"`
	ExactMass          number `json:"ExactMass"`
	MonoisotopicMass   number `json:"MonoisotopicMass"`
	TPSA               number `json:"TPSA"`
	Complexity         number `json:"Complexity"`
	Charge             number `json:"Charge"`
	HBondDonorCount    number `json:"HBondDonorCount"`
	HBondAcceptorCount number `json:"HBondAcceptorCount"`
	RotatableBondCount number `json:"RotatableBondCount"`
	HeavyAtomCount     number `json:"HeavyAtomCount"`
}

func toFloat(n number) float64 {
	return float64(n)
}

func toInt(n number) int {
	return int(n)
}

func (p *PubChem) properties(ctx context.Context, cid int64) (*compoundProperties, error) {
	propsURL := fmt.Sprintf("%s/compound/cid/%d/property/%s/JSON", p.baseURL, cid, basicProperties)

	data, err := p.getJSON(ctx, propsURL)
	if err != nil {
		return nil, err
	}

	var table struct {
		PropertyTable struct {
			Properties []compoundProperties `json:"Properties"`
		} `json:"PropertyTable"`
	}
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decoding properties for CID %d: %w", cid, err)
	}
	if len(table.PropertyTable.Properties) == 0 {
		return nil, fmt.Errorf("no properties returned for CID %d", cid)
	}

	return &table.PropertyTable.Properties[0], nil
}

// casNumber mines the compound's synonym list for a checksum-valid CAS
// registry number.
func (p *PubChem) casNumber(ctx context.Context, cid int64) (string, error) {
	synonymsURL := fmt.Sprintf("%s/compound/cid/%d/synonyms/JSON", p.baseURL, cid)

	data, err := p.getJSON(ctx, synonymsURL)
	if err != nil {
		return "", err
	}

	var list struct {
		InformationList struct {
			Information []struct {
				Synonym []string `json:"Synonym"`
			} `json:"Information"`
		} `json:"InformationList"`
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return "", fmt.Errorf("decoding synonyms for CID %d: %w", cid, err)
	}
	if len(list.InformationList.Information) == 0 {
		return "", nil
	}

	for _, synonym := range list.InformationList.Information[0].Synonym {
		if cas := chem.ParseCASNumber(synonym); cas != "" {
			return cas, nil
		}
	}
	return "", nil
}

type ghsInfo struct {
	hazardStatements        string
	precautionaryStatements string
	pictograms              string
	signalWord              string
}

func (p *PubChem) ghsData(ctx context.Context, cid int64) (ghsInfo, error) {
	ghsURL := fmt.Sprintf("%s/data/compound/%d/JSON?heading=GHS+Classification", p.viewURL, cid)

	record, err := p.viewRecord(ctx, ghsURL, cid)
	if err != nil {
		return ghsInfo{}, err
	}

	section := findSection(record.Record.Section, "GHS Classification")
	if section == nil {
		return ghsInfo{}, nil
	}

	info := ghsInfo{}
	if sub := findSection(section.Section, "GHS Hazard Statements"); sub != nil {
		info.hazardStatements = sub.joinedStrings()
	}
	if sub := findSection(section.Section, "Precautionary Statement Codes"); sub != nil {
		info.precautionaryStatements = sub.joinedStrings()
	}
	if sub := findSection(section.Section, "Pictogram(s)"); sub != nil {
		info.pictograms = sub.joinedStrings()
	}
	if sub := findSection(section.Section, "GHS Signal Word"); sub != nil {
		info.signalWord = sub.firstString()
	}

	return info, nil
}

type hazardsInfo struct {
	physicalState string
	color         string
	density       string
	meltingPoint  string
	boilingPoint  string
	flashPoint    string
	solubility    string
	vaporPressure string
	acuteToxicity string
}

func (p *PubChem) hazardsData(ctx context.Context, cid int64) (hazardsInfo, error) {
	hazardsURL := fmt.Sprintf("%s/data/compound/%d/JSON?heading=Safety+and+Hazards", p.viewURL, cid)

	record, err := p.viewRecord(ctx, hazardsURL, cid)
	if err != nil {
		return hazardsInfo{}, err
	}

	sections := record.Record.Section
	property := func(sectionName, propertyName string) string {
		parent := findSection(sections, sectionName)
		if parent == nil {
			return ""
		}
		sub := findSection(parent.Section, propertyName)
		if sub == nil {
			return ""
		}
		return sub.firstString()
	}

	info := hazardsInfo{
		physicalState: property("Experimental Properties", "Physical Description"),
		color:         property("Experimental Properties", "Color/Form"),
		density:       property("Experimental Properties", "Density"),
		meltingPoint:  property("Experimental Properties", "Melting Point"),
		boilingPoint:  property("Experimental Properties", "Boiling Point"),
		flashPoint:    property("Safety and Hazards", "Flash Point"),
		solubility:    property("Experimental Properties", "Solubility"),
		vaporPressure: property("Experimental Properties", "Vapor Pressure"),
	}

	if acute := findSection(sections, "Acute Effects"); acute != nil {
		info.acuteToxicity = acute.joinedStrings()
	}

	return info, nil
}

// viewSection is one node of a PUG View annotation tree.
type viewSection struct {
	TOCHeading  string        `json:"TOCHeading"`
	Section     []viewSection `json:"Section"`
	Information []struct {
		Value struct {
			StringWithMarkup []struct {
				String string `json:"String"`
			} `json:"StringWithMarkup"`
		} `json:"Value"`
	} `json:"Information"`
}

type viewResponse struct {
	Record struct {
		Section []viewSection `json:"Section"`
	} `json:"Record"`
}

func (p *PubChem) viewRecord(ctx context.Context, viewURL string, cid int64) (*viewResponse, error) {
	data, err := p.getJSON(ctx, viewURL)
	if err != nil {
		return nil, err
	}

	var record viewResponse
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding annotation record for CID %d: %w", cid, err)
	}
	return &record, nil
}

// findSection locates a section by heading anywhere in the tree.
func findSection(sections []viewSection, heading string) *viewSection {
	for i := range sections {
		if sections[i].TOCHeading == heading {
			return &sections[i]
		}
		if found := findSection(sections[i].Section, heading); found != nil {
			return found
		}
	}
	return nil
}

// joinedStrings collects every markup string under the section, joined
// with "; " the way statements are stored.
func (s *viewSection) joinedStrings() string {
	var parts []string
	for _, info := range s.Information {
		for _, markup := range info.Value.StringWithMarkup {
			if markup.String != "" {
				parts = append(parts, markup.String)
			}
		}
	}
	return strings.Join(parts, "; ")
}

// firstString returns the first markup string under the section.
func (s *viewSection) firstString() string {
	for _, info := range s.Information {
		for _, markup := range info.Value.StringWithMarkup {
			if markup.String != "" {
				return markup.String
			}
		}
	}
	return ""
}
