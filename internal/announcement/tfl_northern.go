package announcement

import (
	"railannouncements/internal/audio"
)

type northernDestination struct {
	station         string
	viaBank         bool
	viaCharingCross bool
}

var northernDestinations = []northernDestination{
	{station: "Archway", viaBank: true, viaCharingCross: true},
	{station: "Battersea Power Station", viaCharingCross: true},
	{station: "Charing Cross"},
	{station: "Clapham Common", viaBank: true, viaCharingCross: true},
	{station: "Colindale", viaBank: true, viaCharingCross: true},
	{station: "East Finchley", viaBank: true, viaCharingCross: true},
	{station: "Edgware", viaBank: true, viaCharingCross: true},
	{station: "Euston", viaBank: true},
	{station: "Finchley Central", viaBank: true, viaCharingCross: true},
	{station: "Golders Green", viaBank: true, viaCharingCross: true},
	{station: "Hampstead", viaBank: true, viaCharingCross: true},
	{station: "High Barnet", viaBank: true, viaCharingCross: true},
	{station: "Kennington", viaBank: true, viaCharingCross: true},
	{station: "Kings Cross"},
	{station: "Mill Hill East", viaBank: true, viaCharingCross: true},
	{station: "Moorgate"},
	{station: "Morden", viaBank: true, viaCharingCross: true},
	{station: "Mornington Crescent"},
	{station: "Nine Elms", viaCharingCross: true},
	{station: "Stockwell", viaBank: true, viaCharingCross: true},
	{station: "Tooting Broadway", viaBank: true, viaCharingCross: true},
}

var northernStations = []string{
	"Angel", "Archway", "Balham", "Bank", "Battersea Power Station", "Belsize Park", "Borough", "Brent Cross",
	"Burnt Oak", "Camden Town", "Chalk Farm", "Charing Cross", "Clapham Common", "Clapham North", "Clapham South",
	"Colindale", "Colliers Wood", "East Finchley", "Edgware", "Elephant & Castle", "Embankment", "Euston",
	"Finchley Central", "Golders Green", "Goodge Street", "Hampstead", "Hendon Central", "High Barnet",
	"Highgate", "Kennington", "Kentish Town", "Kings Cross St. Pancras", "Leicester Square", "London Bridge",
	"Mill Hill East", "Moorgate", "Morden", "Mornington Crescent", "Nine Elms", "Oval", "Old Street",
	"South Wimbledon", "Stockwell", "Totteridge & Whetstone", "Tooting Bec", "Tooting Broadway",
	"Tottenham Court Road", "Tufnell Park", "Warren Street", "West Finchley", "Woodside Park",
}

// northernDestinationValues holds every selectable destination label:
// "<station>", "via bank.<station>" and "via charing cross.<station>".
var northernDestinationValues = func() map[string]struct{} {
	values := make(map[string]struct{})
	for _, d := range northernDestinations {
		values[d.station] = struct{}{}
		if d.viaBank {
			values["via bank."+d.station] = struct{}{}
		}
		if d.viaCharingCross {
			values["via charing cross."+d.station] = struct{}{}
		}
	}
	return values
}()

var northernStationNames = newStationSet(northernStations...)

type northernStationOptions struct {
	StationName string `json:"stationName"`
}

// TfLNorthernLine records its clips by station name, so ids are slugs of the
// selected label.
type TfLNorthernLine struct {
	base
}

func NewTfLNorthernLine() *TfLNorthernLine {
	s := &TfLNorthernLine{base: base{
		id:     "TFL_NORTHERN_LINE_V1",
		name:   "TfL Northern Line",
		kind:   KindTrain,
		prefix: "TfL/Northern Line",
	}}
	s.handle("destinationInfo", tab(s.destinationInfo))
	s.handle("nextStation", tab(s.nextStation))
	s.handle("atStation", tab(s.atStation))
	return s
}

func (s *TfLNorthernLine) destinationInfo(o northernStationOptions) (audio.Sequence, error) {
	if _, ok := northernDestinationValues[o.StationName]; !ok {
		return nil, inputErrorf("%q is not a Northern Line destination.", o.StationName)
	}
	return audio.Of("destination." + audio.Slugify(o.StationName)), nil
}

func (s *TfLNorthernLine) nextStation(o northernStationOptions) (audio.Sequence, error) {
	if !northernStationNames.has(o.StationName) {
		return nil, inputErrorf("%q is not a Northern Line station.", o.StationName)
	}
	return audio.Of("conjoiner.the next station is", "station."+audio.Slugify(o.StationName)), nil
}

func (s *TfLNorthernLine) atStation(o northernStationOptions) (audio.Sequence, error) {
	if !northernStationNames.has(o.StationName) {
		return nil, inputErrorf("%q is not a Northern Line station.", o.StationName)
	}
	return audio.Of("conjoiner.this station is", "station."+audio.Slugify(o.StationName)), nil
}
