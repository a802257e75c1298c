package rtt

// Service is a Realtime Trains service record.
type Service struct {
	ServiceUID           string      `json:"serviceUid"`
	RunDate              string      `json:"runDate"`
	ServiceType          string      `json:"serviceType"`
	IsPassenger          bool        `json:"isPassenger"`
	TrainIdentity        string      `json:"trainIdentity"`
	PowerType            string      `json:"powerType"`
	TrainClass           string      `json:"trainClass"`
	AtocCode             string      `json:"atocCode"`
	AtocName             string      `json:"atocName"`
	PerformanceMonitored bool        `json:"performanceMonitored"`
	Origin               []*EndPoint `json:"origin"`
	Destination          []*EndPoint `json:"destination"`
	Locations            []*Location `json:"locations"`
}

type EndPoint struct {
	Tiploc      string `json:"tiploc"`
	Description string `json:"description"`
	WorkingTime string `json:"workingTime"`
	PublicTime  string `json:"publicTime"`
	Crs         string `json:"crs,omitempty"`
}

type Location struct {
	Tiploc       string      `json:"tiploc"`
	Crs          string      `json:"crs,omitempty"`
	Description  string      `json:"description"`
	Origin       []*EndPoint `json:"origin"`
	Destination  []*EndPoint `json:"destination"`
	IsCall       bool        `json:"isCall"`
	IsPublicCall bool        `json:"isPublicCall"`
	Platform     string      `json:"platform,omitempty"`
	Path         string      `json:"path,omitempty"`
	// CALL, PASS, ORIGIN, DESTINATION, STARTS, TERMINATES, CANCELLED_CALL or CANCELLED_PASS
	DisplayAs         string `json:"displayAs"`
	RealtimeActivated bool   `json:"realtimeActivated,omitempty"`

	GbttBookedArrival             string `json:"gbttBookedArrival,omitempty"`
	GbttBookedArrivalNextDay      bool   `json:"gbttBookedArrivalNextDay,omitempty"`
	GbttBookedDeparture           string `json:"gbttBookedDeparture,omitempty"`
	GbttBookedDepartureNextDay    bool   `json:"gbttBookedDepartureNextDay,omitempty"`
	RealtimeArrival               string `json:"realtimeArrival,omitempty"`
	RealtimeArrivalNextDay        bool   `json:"realtimeArrivalNextDay,omitempty"`
	RealtimeDeparture             string `json:"realtimeDeparture,omitempty"`
	RealtimeDepartureNextDay      bool   `json:"realtimeDepartureNextDay,omitempty"`
	RealtimeGbttArrivalLateness   *int   `json:"realtimeGbttArrivalLateness,omitempty"`
	RealtimeGbttDepartureLateness *int   `json:"realtimeGbttDepartureLateness,omitempty"`

	Associations []*Association `json:"associations,omitempty"`
}

type Association struct {
	// divide or join
	Type              string   `json:"type"`
	AssociatedUID     string   `json:"associatedUid"`
	AssociatedRunDate string   `json:"associatedRunDate"`
	Service           *Service `json:"service,omitempty"`
}
