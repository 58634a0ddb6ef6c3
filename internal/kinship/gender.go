package kinship

import (
	"fmt"
	"strings"
)

type Gender string

const (
	Male        Gender = "male"
	Female      Gender = "female"
	Unspecified Gender = "unspecified"
)

// ParseGender accepts the stored spellings. "other" and the empty string map to Unspecified.
func ParseGender(raw string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	case "", "other", "unspecified", "unknown":
		return Unspecified, nil
	default:
		return Unspecified, fmt.Errorf("unknown gender %q", raw)
	}
}

func (g Gender) IsFemale() bool { return g == Female }

func (g Gender) String() string {
	if g == "" {
		return string(Unspecified)
	}
	return string(g)
}

// pick returns female for Female and male for everything else.
func pick(g Gender, female, male RelationType) RelationType {
	if g == Female {
		return female
	}
	return male
}
