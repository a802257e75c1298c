package darwin

import (
	"encoding/json"
)

// Association categories as sent by the staff departures API.
const (
	CategoryJoin       = 0
	CategoryDivide     = 1
	CategoryLinkedFrom = 2
	CategoryLinkedTo   = 3
)

// Board is a staff departure board for one station.
type Board struct {
	TrainServices          []*TrainService `json:"trainServices"`
	BusServices            json.RawMessage `json:"busServices"`
	FerryServices          json.RawMessage `json:"ferryServices"`
	IsTruncated            bool            `json:"isTruncated"`
	GeneratedAt            string          `json:"generatedAt"`
	LocationName           string          `json:"locationName"`
	Crs                    string          `json:"crs"`
	FilterLocationName     *string         `json:"filterLocationName"`
	Filtercrs              *string         `json:"filtercrs"`
	FilterType             int             `json:"filterType"`
	StationManager         string          `json:"stationManager"`
	StationManagerCode     string          `json:"stationManagerCode"`
	NrccMessages           []*NrccMessage  `json:"nrccMessages"`
	PlatformsAreHidden     bool            `json:"platformsAreHidden"`
	ServicesAreUnavailable bool            `json:"servicesAreUnavailable"`
}

// Times holds the scheduled, actual and estimated times shared by services
// and calling points. Each is only meaningful when its Specified flag is set.
type Times struct {
	Sta          string `json:"sta"`
	StaSpecified bool   `json:"staSpecified"`
	Ata          string `json:"ata"`
	AtaSpecified bool   `json:"ataSpecified"`
	Eta          string `json:"eta"`
	EtaSpecified bool   `json:"etaSpecified"`
	Std          string `json:"std"`
	StdSpecified bool   `json:"stdSpecified"`
	Atd          string `json:"atd"`
	AtdSpecified bool   `json:"atdSpecified"`
	Etd          string `json:"etd"`
	EtdSpecified bool   `json:"etdSpecified"`
}

type Forecast struct {
	ArrivalType             int             `json:"arrivalType"`
	ArrivalTypeSpecified    bool            `json:"arrivalTypeSpecified"`
	ArrivalSource           *string         `json:"arrivalSource"`
	ArrivalSourceInstance   json.RawMessage `json:"arrivalSourceInstance"`
	DepartureType           int             `json:"departureType"`
	DepartureTypeSpecified  bool            `json:"departureTypeSpecified"`
	DepartureSource         *string         `json:"departureSource"`
	DepartureSourceInstance json.RawMessage `json:"departureSourceInstance"`
}

type TrainService struct {
	Times
	Forecast

	PreviousLocations         json.RawMessage     `json:"previousLocations"`
	SubsequentLocations       []*TimingLocation   `json:"subsequentLocations"`
	CancelReason              *LatenessReason     `json:"cancelReason"`
	DelayReason               *LatenessReason     `json:"delayReason"`
	Category                  string              `json:"category"`
	Activities                json.RawMessage     `json:"activities,omitempty"`
	Length                    *int                `json:"length"`
	IsReverseFormation        bool                `json:"isReverseFormation"`
	DetachFront               bool                `json:"detachFront"`
	Origin                    []*EndPointLocation `json:"origin"`
	Destination               []*EndPointLocation `json:"destination"`
	CurrentOrigins            []*EndPointLocation `json:"currentOrigins"`
	CurrentDestinations       []*EndPointLocation `json:"currentDestinations"`
	Formation                 json.RawMessage     `json:"formation"`
	Rid                       string              `json:"rid"`
	UID                       string              `json:"uid"`
	TrainID                   string              `json:"trainid"`
	Rsid                      *string             `json:"rsid"`
	Sdd                       string              `json:"sdd"`
	Operator                  string              `json:"operator"`
	OperatorCode              string              `json:"operatorCode"`
	IsPassengerService        bool                `json:"isPassengerService"`
	IsCharter                 bool                `json:"isCharter"`
	IsCancelled               bool                `json:"isCancelled"`
	IsCircularRoute           bool                `json:"isCircularRoute"`
	FilterLocationCancelled   bool                `json:"filterLocationCancelled"`
	FilterLocationOperational bool                `json:"filterLocationOperational"`
	IsOperationalCall         bool                `json:"isOperationalCall"`
	Platform                  string              `json:"platform"`
	PlatformIsHidden          bool                `json:"platformIsHidden"`
	// upstream spelling
	ServiceIsSupressed bool            `json:"serviceIsSupressed"`
	AdhocAlerts        json.RawMessage `json:"adhocAlerts"`
}

// TimingLocation is a calling or passing point of a service.
type TimingLocation struct {
	Times
	Forecast

	LocationName        string          `json:"locationName"`
	Tiploc              string          `json:"tiploc"`
	Crs                 string          `json:"crs,omitempty"`
	IsOperational       bool            `json:"isOperational"`
	IsPass              bool            `json:"isPass"`
	IsCancelled         bool            `json:"isCancelled"`
	Platform            string          `json:"platform,omitempty"`
	PlatformIsHidden    bool            `json:"platformIsHidden"`
	ServiceIsSuppressed bool            `json:"serviceIsSuppressed"`
	Lateness            json.RawMessage `json:"lateness"`
	Associations        []*Association  `json:"associations"`
	AdhocAlerts         json.RawMessage `json:"adhocAlerts"`
	Activities          json.RawMessage `json:"activities,omitempty"`
}

type Association struct {
	Category     int    `json:"category"`
	Rid          string `json:"rid"`
	UID          string `json:"uid"`
	TrainID      string `json:"trainid"`
	Rsid         string `json:"rsid,omitempty"`
	Sdd          string `json:"sdd"`
	Origin       string `json:"origin"`
	OriginCRS    string `json:"originCRS"`
	OriginTiploc string `json:"originTiploc"`
	Destination  string `json:"destination"`
	DestCRS      string `json:"destCRS"`
	DestTiploc   string `json:"destTiploc"`
	IsCancelled  bool   `json:"isCancelled"`

	// Service is attached for joins and divides only.
	Service *ServiceDetail `json:"service,omitempty"`
}

// Resolvable reports whether the associated service is fetched and embedded.
func (a *Association) Resolvable() bool {
	return a.Category == CategoryJoin || a.Category == CategoryDivide
}

type EndPointLocation struct {
	IsOperationalEndPoint   bool            `json:"isOperationalEndPoint"`
	LocationName            string          `json:"locationName"`
	Crs                     string          `json:"crs"`
	Tiploc                  string          `json:"tiploc"`
	Via                     json.RawMessage `json:"via"`
	FutureChangeTo          int             `json:"futureChangeTo"`
	FutureChangeToSpecified bool            `json:"futureChangeToSpecified"`
}

// ServiceDetail is the full record of one service, as returned by /service/{rid}.
type ServiceDetail struct {
	Times

	CancelReason       *LatenessReason    `json:"cancelReason"`
	DelayReason        *LatenessReason    `json:"delayReason"`
	IsCharter          bool               `json:"isCharter"`
	IsPassengerService bool               `json:"isPassengerService"`
	Category           string             `json:"category"`
	Rid                string             `json:"rid"`
	UID                string             `json:"uid"`
	Locations          []*ServiceLocation `json:"locations"`
	TrainID            string             `json:"trainid"`
}

type ServiceLocation struct {
	TimingLocation

	Length    *int                `json:"length"`
	FalseDest []*EndPointLocation `json:"falseDest"`
}

type NrccMessage struct {
	Category     int    `json:"category"`
	Severity     int    `json:"severity"`
	XhtmlMessage string `json:"xhtmlMessage"`
	PlainText    string `json:"plainText,omitempty"`
}

// LatenessReason explains a cancellation or delay. When Near is set the
// reason happened close to Tiploc, and stationName is added to the JSON once
// resolved: a string for a known station, null otherwise.
type LatenessReason struct {
	Tiploc string `json:"tiploc"`
	Near   bool   `json:"near"`
	Value  int    `json:"value"`

	stationName     *string
	stationResolved bool
}

func (l *LatenessReason) SetStationName(name *string) {
	l.stationName = name
	l.stationResolved = true
}

// StationName returns the resolved name and whether resolution ran at all.
func (l *LatenessReason) StationName() (*string, bool) {
	return l.stationName, l.stationResolved
}

func (l LatenessReason) MarshalJSON() ([]byte, error) {
	type plain struct {
		Tiploc string `json:"tiploc"`
		Near   bool   `json:"near"`
		Value  int    `json:"value"`
	}
	if !l.stationResolved {
		return json.Marshal(plain{l.Tiploc, l.Near, l.Value})
	}
	return json.Marshal(struct {
		plain
		StationName *string `json:"stationName"`
	}{plain{l.Tiploc, l.Near, l.Value}, l.stationName})
}

func (l *LatenessReason) UnmarshalJSON(b []byte) error {
	var raw struct {
		Tiploc      string           `json:"tiploc"`
		Near        bool             `json:"near"`
		Value       int              `json:"value"`
		StationName *json.RawMessage `json:"stationName"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*l = LatenessReason{Tiploc: raw.Tiploc, Near: raw.Near, Value: raw.Value}
	if raw.StationName != nil {
		var name *string
		if err := json.Unmarshal(*raw.StationName, &name); err != nil {
			return err
		}
		l.SetStationName(name)
	}
	return nil
}
