package radio

import "avalon/xbee-go/pkg/frames"

// StartupState is the outcome of the post-open handshake that verifies the
// radio speaks API framing.
type StartupState int

const (
	// StartupUnchecked means the handshake has not run
	StartupUnchecked StartupState = iota

	// StartupVerified means the radio confirmed API mode
	StartupVerified

	// StartupDegradedUnverified means the radio never answered or rejected
	// the handshake; the link stays usable but unconfirmed.
	StartupDegradedUnverified
)

// String returns string representation of StartupState
func (s StartupState) String() string {
	switch s {
	case StartupUnchecked:
		return "Unchecked"
	case StartupVerified:
		return "Verified"
	case StartupDegradedUnverified:
		return "DegradedUnverified"
	default:
		return "Unknown"
	}
}

// HardwareFamily classifies the radio model from the hardware version
// response.
type HardwareFamily int

const (
	HardwareUnknown HardwareFamily = iota
	HardwareSeries1
	HardwareSeries1Pro
	HardwareSeries2
	HardwareSeries2Pro
)

// String returns string representation of HardwareFamily
func (h HardwareFamily) String() string {
	switch h {
	case HardwareSeries1:
		return "Series 1"
	case HardwareSeries1Pro:
		return "Series 1 Pro"
	case HardwareSeries2:
		return "Series 2"
	case HardwareSeries2Pro:
		return "Series 2 Pro"
	default:
		return "Unknown"
	}
}

// Supported reports whether the engine has been validated against this
// family.
func (h HardwareFamily) Supported() bool {
	return h == HardwareSeries1 || h == HardwareSeries1Pro
}

// classifyHardware maps the high byte of the HV response to a hardware
// family.
func classifyHardware(data []byte) HardwareFamily {
	if len(data) < 1 {
		return HardwareUnknown
	}
	switch data[0] {
	case 0x17:
		return HardwareSeries1
	case 0x18:
		return HardwareSeries1Pro
	case 0x19:
		return HardwareSeries2
	case 0x1A:
		return HardwareSeries2Pro
	default:
		return HardwareUnknown
	}
}

// apiModeEnabled is the AP value the handshake requires: API framing without
// escape bytes.
const apiModeEnabled uint32 = 1

// runStartupCheck verifies the radio is in API mode and classifies its
// hardware. Three exchanges at most: query AP, set AP=1 if the radio reports
// another mode, query HV. Any exchange that fails or is rejected degrades
// the startup state; an unrecognized hardware family only logs a warning.
func (r *Radio) runStartupCheck() {
	rsp, err := r.SendSync(frames.NewATCommandRequest(frames.ATAP, nil), r.config.ResponseTimeout)
	if err != nil || !rsp.Ok() {
		r.logger.Warn("Radio %s: AP query failed (err=%v), continuing unverified", r.config.ID, err)
		r.setStartupState(StartupDegradedUnverified)
		return
	}

	if beUint(rsp.Data) != apiModeEnabled {
		r.logger.Info("Radio %s: AP=%d, switching to API mode", r.config.ID, beUint(rsp.Data))
		setRsp, err := r.SendSync(frames.NewATCommandRequest(frames.ATAP, []byte("1")), r.config.ResponseTimeout)
		if err != nil || !setRsp.Ok() {
			r.logger.Warn("Radio %s: AP set failed (err=%v), continuing unverified", r.config.ID, err)
			r.setStartupState(StartupDegradedUnverified)
			return
		}
	}

	hvRsp, err := r.SendSync(frames.NewATCommandRequest(frames.ATHV, nil), r.config.ResponseTimeout)
	if err != nil || !hvRsp.Ok() {
		r.logger.Warn("Radio %s: HV query failed (err=%v), continuing unverified", r.config.ID, err)
		r.setStartupState(StartupDegradedUnverified)
		return
	}

	family := classifyHardware(hvRsp.Data)
	r.setHardware(family)
	if !family.Supported() {
		r.logger.Warn("Radio %s: untested hardware family %s (HV=% X)", r.config.ID, family, hvRsp.Data)
	} else {
		r.logger.Info("Radio %s: hardware family %s", r.config.ID, family)
	}

	r.setStartupState(StartupVerified)
}
