package led

import (
	"fmt"
	"strconv"
	"strings"
)

// ID identifies a LED by its logical role on a device, independent of the
// vendor's own indexing.
//
// The upper 16 bits select a Group, the lower 16 bits an index within that
// group starting at 1. Each group holds GroupCapacity identifiers.
type ID uint32

// Invalid is the reserved identifier that never appears in a Registry.
const Invalid ID = 0

// GroupCapacity is the number of identifiers available in each group.
const GroupCapacity = 1024

// Group partitions the identifier space by device category.
type Group uint16

// Identifier groups.
const (
	GroupKeyboard Group = iota + 1
	GroupMouse
	GroupHeadset
	GroupMousepad
	GroupLedStripe
	GroupLedMatrix
	GroupMainboard
	GroupGraphicsCard
	GroupDRAM
	GroupHeadsetStand
	GroupKeypad
	GroupFan
	GroupSpeaker
	GroupCooler
	GroupMonitor
	GroupLedController
	GroupGameController
	GroupCustom
	GroupUnknown
	GroupLogo
)

// groupNames maps numbered groups to the prefix used in their textual form,
// e.g. GroupMouse index 3 is "Mouse3".
var groupNames = map[Group]string{
	GroupMouse:          "Mouse",
	GroupHeadset:        "Headset",
	GroupMousepad:       "Mousepad",
	GroupLedStripe:      "LedStripe",
	GroupLedMatrix:      "LedMatrix",
	GroupMainboard:      "Mainboard",
	GroupGraphicsCard:   "GraphicsCard",
	GroupDRAM:           "DRAM",
	GroupHeadsetStand:   "HeadsetStand",
	GroupKeypad:         "Keypad",
	GroupFan:            "Fan",
	GroupSpeaker:        "Speaker",
	GroupCooler:         "Cooler",
	GroupMonitor:        "Monitor",
	GroupLedController:  "LedController",
	GroupGameController: "GameController",
	GroupCustom:         "Custom",
	GroupUnknown:        "Unknown",
}

// Logo is the single identifier of the logo group.
var Logo = Make(GroupLogo, 1)

// Make builds an ID from a group and a 1-based index. It returns Invalid if
// the index is outside 1..GroupCapacity.
func Make(g Group, index int) ID {
	if g == 0 || index < 1 || index > GroupCapacity {
		return Invalid
	}
	return ID(uint32(g)<<16 | uint32(index))
}

// First returns the lowest identifier of group g.
func First(g Group) ID {
	return Make(g, 1)
}

// Last returns the highest identifier of group g.
func Last(g Group) ID {
	return Make(g, GroupCapacity)
}

// Group returns the group the identifier belongs to.
func (id ID) Group() Group {
	return Group(id >> 16)
}

// Index returns the 1-based position of the identifier inside its group.
func (id ID) Index() int {
	return int(id & 0xFFFF)
}

// IsValid reports whether id is a well-formed, non-reserved identifier.
func (id ID) IsValid() bool {
	return id != Invalid && id.Group() >= GroupKeyboard && id.Group() <= GroupLogo &&
		id.Index() >= 1 && id.Index() <= GroupCapacity
}

// Next returns the following identifier in the same group, or Invalid once
// the group is exhausted.
func (id ID) Next() ID {
	if !id.IsValid() || id.Index() >= GroupCapacity {
		return Invalid
	}
	return id + 1
}

// String returns the canonical name, e.g. "Keyboard_Escape" or "LedStripe7".
func (id ID) String() string {
	if !id.IsValid() {
		if id == Invalid {
			return "Invalid"
		}
		return fmt.Sprintf("ID(%#x)", uint32(id))
	}

	switch g := id.Group(); g {
	case GroupKeyboard:
		if name, ok := keyboardNames[id.Index()]; ok {
			return "Keyboard_" + name
		}
		if id.Index() >= keyboardCustomBase {
			return "Keyboard_Custom" + strconv.Itoa(id.Index()-keyboardCustomBase+1)
		}
		return fmt.Sprintf("ID(%#x)", uint32(id))
	case GroupLogo:
		if id == Logo {
			return "Logo"
		}
		return fmt.Sprintf("ID(%#x)", uint32(id))
	default:
		return groupNames[g] + strconv.Itoa(id.Index())
	}
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Parse converts a textual identifier to an ID. Matching is
// case-insensitive. Unknown names return ErrUnknownID.
func Parse(s string) (ID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return Invalid, fmt.Errorf("%w: empty", ErrUnknownID)
	}
	if id, ok := namedIDs[key]; ok {
		return id, nil
	}

	if rest, ok := strings.CutPrefix(key, "keyboard_custom"); ok {
		if n, ok := parseIndex(rest, GroupCapacity-keyboardCustomBase+1); ok {
			return Make(GroupKeyboard, keyboardCustomBase+n-1), nil
		}
		return Invalid, fmt.Errorf("%w: %q", ErrUnknownID, s)
	}

	for g, prefix := range groupNames {
		rest, ok := strings.CutPrefix(key, strings.ToLower(prefix))
		if !ok {
			continue
		}
		if n, ok := parseIndex(rest, GroupCapacity); ok {
			return Make(g, n), nil
		}
	}
	return Invalid, fmt.Errorf("%w: %q", ErrUnknownID, s)
}

func parseIndex(s string, limit int) (int, bool) {
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > limit {
		return 0, false
	}
	return n, true
}
