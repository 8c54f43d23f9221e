package sntp

import (
	"encoding/json"
	"fmt"
	"net"
	"strings"

	"github.com/AndrewLester/sntpal/internal/ntp"
)

// RefKind selects how the 32-bit reference identifier is read.
type RefKind int

const (
	RefUnknown     RefKind = iota
	RefPrimary             // stratum 0-1: four ASCII characters
	RefSecondaryV3         // stratum 2+, version 3: IPv4 address of the upstream server
	RefSecondaryV4         // stratum 2+, version 4: low 32 bits of the upstream transmit timestamp
)

func (k RefKind) String() string {
	switch k {
	case RefPrimary:
		return "primary"
	case RefSecondaryV3:
		return "secondary-v3"
	case RefSecondaryV4:
		return "secondary-v4"
	}
	return "unknown"
}

func (k RefKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *RefKind) UnmarshalText(text []byte) error {
	for _, kind := range []RefKind{RefUnknown, RefPrimary, RefSecondaryV3, RefSecondaryV4} {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("invalid reference kind %q", text)
}

// Reference is a decoded reference identifier.
type Reference struct {
	Kind RefKind `json:"kind"`
	Raw  [4]byte `json:"-"`

	Code     string  `json:"code,omitempty"`
	KissCode string  `json:"kiss_code,omitempty"`
	IP       net.IP  `json:"ip,omitempty"`
	Host     string  `json:"host,omitempty"`
	Millis   float64 `json:"ms"`
}

// MarshalJSON writes ms only for version 4 references, where zero is a
// valid value.
func (r Reference) MarshalJSON() ([]byte, error) {
	type plain Reference
	out := struct {
		plain
		Millis *float64 `json:"ms,omitempty"`
	}{plain: plain(r)}
	if r.Kind == RefSecondaryV4 {
		out.Millis = &r.Millis
	}
	return json.Marshal(out)
}

func ClassifyReference(stratum, version uint8, raw [4]byte) Reference {
	ref := Reference{Raw: raw}

	switch {
	case stratum <= 1:
		ref.Kind = RefPrimary
		ref.Code = strings.TrimRight(string(raw[:]), "\x00")
		if stratum == 0 {
			ref.KissCode = ref.Code
		}
	case version == 3:
		ref.Kind = RefSecondaryV3
		ref.IP = net.IPv4(raw[0], raw[1], raw[2], raw[3]).To4()
	case version == 4:
		ref.Kind = RefSecondaryV4
		ref.Millis = ntp.DecodeFractionMillis(raw[:])
	default:
		ref.Kind = RefUnknown
	}
	return ref
}

func (r Reference) String() string {
	switch r.Kind {
	case RefPrimary:
		return r.Code
	case RefSecondaryV3:
		if r.Host != "" {
			return fmt.Sprintf("%s (%s)", r.IP, r.Host)
		}
		return r.IP.String()
	case RefSecondaryV4:
		return fmt.Sprintf("%.6f ms", r.Millis)
	}
	return "unknown"
}
