package announcement

import (
	"railannouncements/internal/audio"
)

var lnerStations = newStationSet(
	"AAP", "ABD", "ACK", "ALM", "APY", "ARB", "ARL", "AVM", "BDQ", "BEA", "BHI", "BHM", "BIA", "BIL", "BIW", "BIY",
	"BLA", "BPK", "BSE", "BSN", "BUH", "BWK", "CAG", "CAN", "CAR", "CBG", "CEY", "CFD", "CFL", "CHD", "CHT", "CLE",
	"CLM", "CLS", "COT", "CRM", "CRO", "CRS", "CTL", "CUP", "DAR", "DBL", "DBY", "DEE", "DEW", "DHM", "DHN", "DKN",
	"DLW", "DON", "DUN", "EAG", "EDB", "EDP", "EGY", "ELY", "FIL", "FKG", "FKK", "FPK", "GBL", "GLC", "GLE", "GLQ",
	"GMB", "GOO", "GRF", "GRA", "HAB", "HAT", "HBP", "HDY", "HEI", "HES", "HEW", "HEX", "HFN", "HGT", "HGY", "HIT",
	"HKM", "HMM", "HOW", "HPL", "HRN", "HRS", "HUD", "HUL", "HUN", "HYM", "INK", "INV", "IPS", "KBW", "KDY", "KEI",
	"KGX", "KIN", "KLF", "KNA", "KNO", "LAU", "LBT", "LCN", "LDS", "LEI", "LEU", "LIN", "LNZ", "LST", "MAN", "MAS",
	"MBR", "MCE", "MCH", "MHS", "MIK", "MIR", "MKR", "MLT", "MLY", "MNC", "MPT", "MTH", "MTS", "MUB", "NAY", "NCL",
	"NNG", "NOR", "NOT", "NRD", "NRW", "NTR", "NWR", "OKM", "PBO", "PBR", "PEG", "PFM", "PIT", "PLN", "PMT", "PNL",
	"POP", "PTH", "RCC", "RET", "RMC", "RVN", "RSN", "RYS", "SAE", "SBE", "SBY", "SCA", "SCU", "SDY", "SEA", "SEC",
	"SEM", "SFO", "SHD", "SHF", "SHY", "SKG", "SKI", "SLB", "SLR", "SMK", "SNO", "SON", "SPA", "SPF", "STA", "STG",
	"STK", "STN", "STP", "SUN", "SVG", "SWD", "TBY", "THI", "TTF", "WAF", "WDD", "WET", "WGC", "WKF", "WKK", "WLW",
	"WMG", "WRK", "WTB", "XPK", "YRK", "YRM",
)

// connections played after "change here for trains to" at interchange stations
var lnerConnections = map[string]audio.Sequence{
	"NCL": audio.Of("station.CAR", "station.HEX", "and", "tyne and wear metro"),
	"GRA": audio.Of("station.SKG"),
	"DON": audio.Of("station.CLE", "station.RMC", "station.SHF", "and", "station.GMB"),
	"YRK": audio.Of("station.HGT", "station.MLT", "and", "station.SCA"),
	"DAR": audio.Of("station.BIA", "station.MBR", "station.RCC", "and", "station.SLB"),
}

type lnerStoppedOptions struct {
	ThisStationCode  string         `json:"thisStationCode"`
	TerminatesAtCode string         `json:"terminatesAtCode"`
	CallingAtCodes   []CallingPoint `json:"callingAtCodes"`
}

type lnerDepartingOptions struct {
	TerminatesAtCode string         `json:"terminatesAtCode"`
	CallingAtCodes   []CallingPoint `json:"callingAtCodes"`
}

type lnerApproachingOptions struct {
	NextStationCode string `json:"nextStationCode"`
	Terminates      bool   `json:"terminates"`
}

type LNERAzuma struct {
	base
}

func NewLNERAzuma() *LNERAzuma {
	s := &LNERAzuma{base: base{
		id:     "LNER_AZUMA_V1",
		name:   "LNER Azuma",
		kind:   KindTrain,
		prefix: "LNER/Azuma",
	}}
	s.handle("stoppedAtStation", tab(s.stoppedAtStation))
	s.handle("departingStation", tab(s.departingStation))
	s.handle("approachingStation", tab(s.approachingStation))
	return s
}

func (s *LNERAzuma) checkStations(codes ...string) error {
	for _, c := range codes {
		if !lnerStations.has(c) {
			return missingAudio("station." + c)
		}
	}
	return nil
}

func (s *LNERAzuma) stoppedAtStation(o lnerStoppedOptions) (audio.Sequence, error) {
	if err := s.checkStations(append([]string{o.ThisStationCode, o.TerminatesAtCode}, crsCodes(o.CallingAtCodes)...)...); err != nil {
		return nil, err
	}

	if o.ThisStationCode == o.TerminatesAtCode {
		return audio.Sequence{
			audio.T("welcome to"),
			audio.T("station." + o.TerminatesAtCode),
			audio.T("where we finish our journey today"),
			audio.D("on behalf of the onboard team thank you for travelling with lner", 2000),
			audio.D("male.if you enjoyed your journey please let us know", 2000),
		}, nil
	}

	seq := audio.Sequence{
		audio.T("we are now at"),
		audio.D("station."+o.ThisStationCode, 150),
	}
	return append(seq, s.welcome(o.TerminatesAtCode, o.CallingAtCodes, 5000)...), nil
}

func (s *LNERAzuma) departingStation(o lnerDepartingOptions) (audio.Sequence, error) {
	if err := s.checkStations(append([]string{o.TerminatesAtCode}, crsCodes(o.CallingAtCodes)...)...); err != nil {
		return nil, err
	}
	return s.welcome(o.TerminatesAtCode, o.CallingAtCodes, 0), nil
}

func (s *LNERAzuma) approachingStation(o lnerApproachingOptions) (audio.Sequence, error) {
	if err := s.checkStations(o.NextStationCode); err != nil {
		return nil, err
	}

	seq := audio.Of("we will shortly be arriving at", "station."+o.NextStationCode)
	if o.Terminates {
		seq = append(seq, audio.T("where we finish our journey today"))
	}
	if conn, ok := lnerConnections[o.NextStationCode]; ok {
		seq = append(seq, audio.D("change here", 5000), audio.T("for trains to"))
		seq = append(seq, conn...)
	}
	return append(seq,
		audio.D("if youre leaving us here please make sure to take all your personal belongings with you", 5000),
		audio.D("thank you for travelling with lner", 10000),
	), nil
}

func (s *LNERAzuma) welcome(terminatesAt string, callingAt []CallingPoint, delayMs int) audio.Sequence {
	seq := audio.Sequence{
		audio.D("hello and welcome on board this lner azuma to", delayMs),
		audio.D("station."+terminatesAt, 150),
		audio.D("we will call at", 6000),
	}

	if len(callingAt) == 0 {
		seq = append(seq, audio.T("station."+terminatesAt), audio.T("only"))
	} else {
		stops := append(crsCodes(callingAt), terminatesAt)
		seq = append(seq, audio.Pluralise(stops, audio.PluraliseOptions{
			Prefix:            "station.",
			BeforeAndDelayMs:  150,
			AfterAndDelayMs:   150,
			BeforeItemDelayMs: 100,
		})...)
	}

	next := terminatesAt
	if len(callingAt) > 0 {
		next = callingAt[0].CrsCode
	}

	return append(seq,
		audio.D("the next station will be", 5000),
		audio.D("station."+next, 150),
		audio.D("male.cctv is in operation", 3000),
		audio.D("male.btp 61016", 5000),
	)
}
