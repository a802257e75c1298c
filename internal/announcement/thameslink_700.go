package announcement

import (
	"railannouncements/internal/audio"
)

// Thameslink clips are recorded at two pitches: "high" for list items and
// "low" for the end of a sentence.
var (
	tlHighStations = newStationSet(
		"BAB", "BDK", "BFR", "BTN", "BUG", "CTK", "ECR", "ELS", "FLT", "FPK", "GTW", "HHE", "HIT", "HLN", "HPD", "HSK",
		"LBG", "LEA", "LET", "LTN", "LUT", "MIL", "PRP", "RDT", "RYS", "SAC", "STP", "SVG", "TBD", "WVF", "ZFD", "HOR",
		"RDH", "ELD", "SAF",
	)
	tlLowStations = newStationSet(
		"BDM", "BFR", "BTN", "BUG", "CBG", "CTK", "HSK", "LUT", "PRP", "WVF", "RDH", "GTW", "ELD", "HOR", "SAF",
	)
)

var (
	tlNearbyPOIs    = newStationSet("st pauls cathedral")
	tlOtherServices = newStationSet("other national rail services")
)

const tlSafetyPosterID = "safety information is provided on posters in every carriage"

type tlApproachingOptions struct {
	StationCode        string   `json:"stationCode"`
	IsAto              bool     `json:"isAto"`
	TerminatesHere     bool     `json:"terminatesHere"`
	TakeCareAsYouLeave bool     `json:"takeCareAsYouLeave"`
	NearbyPOIs         []string `json:"nearbyPOIs"`
	ChangeFor          []string `json:"changeFor"`
}

type tlStoppedOptions struct {
	ThisStationCode  string         `json:"thisStationCode"`
	TerminatesAtCode string         `json:"terminatesAtCode"`
	CallingAtCodes   []CallingPoint `json:"callingAtCodes"`
	MindTheGap       bool           `json:"mindTheGap"`
}

type tlDepartureOptions struct {
	TerminatesAtCode string         `json:"terminatesAtCode"`
	CallingAtCodes   []CallingPoint `json:"callingAtCodes"`
}

type ThameslinkClass700 struct {
	base
}

func NewThameslinkClass700() *ThameslinkClass700 {
	s := &ThameslinkClass700{base: base{
		id:     "TL_CLASS_700_V1",
		name:   "Thameslink Class 700",
		kind:   KindTrain,
		prefix: "TL/700",
	}}
	s.handle("initialDeparture", tab(s.initialDeparture))
	s.handle("approachingStation", tab(s.approachingStation))
	s.handle("stoppedAtStation", tab(s.stoppedAtStation))
	return s
}

func requireStation(set stationSet, pitch, code string) error {
	if !set.has(code) {
		return missingAudio("stations." + pitch + "." + code)
	}
	return nil
}

func (s *ThameslinkClass700) approachingStation(o tlApproachingOptions) (audio.Sequence, error) {
	var seq audio.Sequence

	if o.TerminatesHere {
		if err := requireStation(tlHighStations, "high", o.StationCode); err != nil {
			return nil, err
		}
		seq = audio.Of(
			"we will shortly be arriving at",
			"stations.high."+o.StationCode,
			"our final destination",
			"thank you for travelling with us please remember to take all your personal belongings with you when you leave the train",
		)
	} else {
		if err := requireStation(tlLowStations, "low", o.StationCode); err != nil {
			return nil, err
		}
		seq = audio.Of("we will shortly be arriving at", "stations.low."+o.StationCode)
	}

	if len(o.ChangeFor) > 0 {
		for _, c := range o.ChangeFor {
			if !tlOtherServices.has(c) {
				return nil, missingAudio("other-services." + c)
			}
		}
		seq = append(seq, audio.T("change here for"))
		seq = append(seq, audio.Pluralise(o.ChangeFor, audio.PluraliseOptions{Prefix: "other-services."})...)
	}

	if len(o.NearbyPOIs) > 0 {
		for _, p := range o.NearbyPOIs {
			if !tlNearbyPOIs.has(p) {
				return nil, missingAudio("POIs." + p)
			}
		}
		seq = append(seq, audio.T("exit here for"))
		seq = append(seq, audio.Pluralise(o.NearbyPOIs, audio.PluraliseOptions{Prefix: "POIs."})...)
	}

	if o.TakeCareAsYouLeave {
		seq = append(seq, audio.T("please make sure you have all your belongings and take care as you leave the train"))
	}
	if o.IsAto {
		seq = append(seq, audio.T("the doors will open automatically at the next station"))
	}
	return seq, nil
}

func (s *ThameslinkClass700) stoppedAtStation(o tlStoppedOptions) (audio.Sequence, error) {
	var seq audio.Sequence

	if o.MindTheGap {
		seq = append(seq, audio.T("please mind the gap between the train and the platform"))
	}
	seq = append(seq, audio.T("this station is"), audio.T("stations.low."+o.ThisStationCode))

	switch {
	case o.ThisStationCode == o.TerminatesAtCode:
		seq = append(seq,
			audio.D("this train terminates here all change", 150),
			audio.T("please ensure you take all personal belongings with you when leaving the train"),
		)
	case len(o.CallingAtCodes) == 0:
		if err := requireStation(tlHighStations, "high", o.TerminatesAtCode); err != nil {
			return nil, err
		}
		seq = append(seq,
			audio.D("the next station is", 3500),
			audio.T("stations.high."+o.TerminatesAtCode),
			audio.T("our final destination"),
		)
	default:
		calling, err := s.callingAt(o.TerminatesAtCode, o.CallingAtCodes)
		if err != nil {
			return nil, err
		}
		seq = append(seq,
			audio.D("this train terminates at", 3500),
			audio.T("stations.low."+o.TerminatesAtCode),
		)
		seq = append(seq, calling...)
	}
	return seq, nil
}

func (s *ThameslinkClass700) initialDeparture(o tlDepartureOptions) (audio.Sequence, error) {
	if err := requireStation(tlLowStations, "low", o.TerminatesAtCode); err != nil {
		return nil, err
	}

	seq := audio.Sequence{
		audio.T("welcome aboard this service to"),
		audio.T("stations.low." + o.TerminatesAtCode),
		audio.D(tlSafetyPosterID, 2000),
	}

	if len(o.CallingAtCodes) == 0 {
		if err := requireStation(tlHighStations, "high", o.TerminatesAtCode); err != nil {
			return nil, err
		}
		return append(seq,
			audio.D("the next station is", 1000),
			audio.T("stations.high."+o.TerminatesAtCode),
			audio.T("our final destination"),
		), nil
	}

	calling, err := s.callingAt(o.TerminatesAtCode, o.CallingAtCodes)
	if err != nil {
		return nil, err
	}
	return append(seq, calling...), nil
}

// callingAt lists the stops at high pitch and the terminus at low pitch.
func (s *ThameslinkClass700) callingAt(terminatesAt string, points []CallingPoint) (audio.Sequence, error) {
	codes := crsCodes(points)
	for _, c := range codes {
		if err := requireStation(tlHighStations, "high", c); err != nil {
			return nil, err
		}
	}
	if err := requireStation(tlLowStations, "low", terminatesAt); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(codes)+1)
	for _, c := range codes {
		ids = append(ids, "stations.high."+c)
	}
	ids = append(ids, "stations.low."+terminatesAt)

	seq := audio.Sequence{audio.D("we will be calling at", 1000)}
	return append(seq, audio.Pluralise(ids, audio.PluraliseOptions{})...), nil
}
