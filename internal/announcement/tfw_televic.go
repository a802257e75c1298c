package announcement

import (
	"railannouncements/internal/audio"
)

var tfwStations = newStationSet(
	"ABA", "ABE", "ABH", "ACY", "AGL", "AGV", "ALB", "AMF", "ASC", "AVY", "BAJ", "BCG", "BHD", "BID", "BRI", "BYD",
	"CAD", "CDF", "CDQ", "CDT", "CGN", "CMN", "CNM", "COY", "CPH", "CRE", "CRK", "CTR", "CWB", "DGL", "DOL", "EBV",
	"FER", "FGW", "FLN", "GCR", "GTH", "HFD", "HHD", "HWV", "KWL", "LAN", "LDN", "LLA", "LLC", "LLD", "LLE", "LLJ",
	"LLN", "LNR", "LUD", "LWR", "MAN", "MCO", "MFH", "MHS", "NWP", "PMD", "PNY", "PPD", "PRE", "PWL", "RHL", "RUN",
	"SHR", "SWA", "TEN", "TNP", "WCK", "WRX",
)

// junctions and signal boxes a service can be routed via, recorded by name
var tfwAdditionalLocations = newStationSet(
	"Acton Grange Junction", "Astley", "Beeston Castle & Tarporley Signal Box", "Birkenhead",
	"Chester South Junction", "Crewe Steel Works", "Dallam Junction", "Frodsham Junction", "Gaerwen",
	"Menai Bridge", "Mickle Trafford", "Moston East Junction", "Ordsall Lane Junction", "Parkside Junction",
	"Saltney Junction", "Tan-y-Bwlch Ffestiniog", "Waterstreet Junction", "Winwick Junction",
)

const tfwLanguageGapMs = 750

type tfwStartOfJourneyOptions struct {
	CallingAtCodes []CallingPoint `json:"callingAtCodes"`
}

// TfWTelevic plays every announcement in Welsh and then English.
type TfWTelevic struct {
	base
}

func NewTfWTelevic() *TfWTelevic {
	s := &TfWTelevic{base: base{
		id:     "TFW_TELEVIC_V1",
		name:   "Transport for Wales - Televic (Elin Llwyd & Eryl Jones)",
		kind:   KindTrain,
		prefix: "TfW/Televic",
	}}
	s.handle("startOfJourney", tab(s.startOfJourney))
	return s
}

func (s *TfWTelevic) startOfJourney(o tfwStartOfJourneyOptions) (audio.Sequence, error) {
	if len(o.CallingAtCodes) == 0 {
		return nil, inputErrorf("Please select at least one station to call at.")
	}

	codes := crsCodes(o.CallingAtCodes)
	for _, c := range codes {
		if !tfwStations.has(c) && !tfwAdditionalLocations.has(c) {
			return nil, missingAudio("station.m." + c)
		}
	}

	seq := audio.Of("intro.welcome on board", "intro.we will be ready to depart for", "station.e."+codes[len(codes)-1])
	seq = append(seq, audio.D("intro.calling at", 300))
	seq = append(seq, s.stations(codes)...)

	return audio.MultiLingual(seq, "cy", "en", tfwLanguageGapMs), nil
}

// stations uses recorded "and <station>" clips rather than a separate "and".
func (s *TfWTelevic) stations(codes []string) audio.Sequence {
	if len(codes) == 1 {
		return audio.Of("station.e." + codes[0])
	}

	seq := make(audio.Sequence, len(codes))
	for i, c := range codes {
		inflection := "m"
		if i == len(codes)-1 {
			inflection = "and"
		}
		seq[i] = audio.D("station."+inflection+"."+c, 100)
	}
	return seq
}
