package wifi

// Protection is the detailed security protection observed from the radio.
type Protection int

const (
	ProtectionUnknown Protection = iota
	ProtectionOpen
	ProtectionWEP
	ProtectionWPA1
	ProtectionWPA1WPA2PersonalTKIPOnly
	ProtectionWPA2PersonalTKIPOnly
	ProtectionWPA1WPA2Personal
	ProtectionWPA2Personal
	ProtectionWPA2WPA3Personal
	ProtectionWPA3Personal
	ProtectionWPA2Enterprise
	ProtectionWPA3Enterprise
)

var protectionNames = map[Protection]string{
	ProtectionUnknown:                  "unknown",
	ProtectionOpen:                     "open",
	ProtectionWEP:                      "wep",
	ProtectionWPA1:                     "wpa1",
	ProtectionWPA1WPA2PersonalTKIPOnly: "wpa1-wpa2-personal-tkip",
	ProtectionWPA2PersonalTKIPOnly:     "wpa2-personal-tkip",
	ProtectionWPA1WPA2Personal:         "wpa1-wpa2-personal",
	ProtectionWPA2Personal:             "wpa2-personal",
	ProtectionWPA2WPA3Personal:         "wpa2-wpa3-personal",
	ProtectionWPA3Personal:             "wpa3-personal",
	ProtectionWPA2Enterprise:           "wpa2-enterprise",
	ProtectionWPA3Enterprise:           "wpa3-enterprise",
}

func (p Protection) String() string {
	if s, ok := protectionNames[p]; ok {
		return s
	}
	return protectionNames[ProtectionUnknown]
}

// securityGroup is the coarse bucket of a protection before the WPA3
// capability flag is applied.
type securityGroup int

const (
	groupNone securityGroup = iota
	groupWEP
	groupWPA
	groupWPA2
	groupWPA3
)

var protectionGroups = map[Protection]securityGroup{
	ProtectionOpen:                     groupNone,
	ProtectionWEP:                      groupWEP,
	ProtectionWPA1:                     groupWPA,
	ProtectionWPA1WPA2PersonalTKIPOnly: groupWPA2,
	ProtectionWPA2PersonalTKIPOnly:     groupWPA2,
	ProtectionWPA1WPA2Personal:         groupWPA2,
	ProtectionWPA2Personal:             groupWPA2,
	ProtectionWPA2WPA3Personal:         groupWPA2,
	ProtectionWPA2Enterprise:           groupWPA2,
	ProtectionWPA3Personal:             groupWPA3,
	ProtectionWPA3Enterprise:           groupWPA3,
}

// SecurityFromProtection maps a detailed protection to the coarse security
// type used for saved-network lookup. WPA3-only protections fall back to
// WPA2 when the client cannot do WPA3. The second return is false for
// protections that cannot be mapped.
func SecurityFromProtection(p Protection, wpa3Capable bool) (SecurityType, bool) {
	g, ok := protectionGroups[p]
	if !ok {
		return SecurityNone, false
	}
	switch g {
	case groupNone:
		return SecurityNone, true
	case groupWEP:
		return SecurityWEP, true
	case groupWPA:
		return SecurityWPA, true
	case groupWPA2:
		return SecurityWPA2, true
	case groupWPA3:
		if wpa3Capable {
			return SecurityWPA3, true
		}
		return SecurityWPA2, true
	}
	return SecurityNone, false
}

// UpgradeSecurity returns the next stronger security type a saved network
// may also match. Only WPA and WPA2 have an upgrade, and only by one step.
func UpgradeSecurity(s SecurityType) (SecurityType, bool) {
	switch s {
	case SecurityWPA:
		return SecurityWPA2, true
	case SecurityWPA2:
		return SecurityWPA3, true
	}
	return s, false
}
