package led

import "strings"

// Named keyboard identifiers. Indices after the last named key up to
// keyboardCustomBase are unassigned; Keyboard_Custom1.. starts at
// keyboardCustomBase.
const (
	KeyboardEscape ID = ID(uint32(GroupKeyboard)<<16) + iota + 1
	KeyboardF1
	KeyboardF2
	KeyboardF3
	KeyboardF4
	KeyboardF5
	KeyboardF6
	KeyboardF7
	KeyboardF8
	KeyboardF9
	KeyboardF10
	KeyboardF11
	KeyboardF12
	KeyboardPrintScreen
	KeyboardScrollLock
	KeyboardPauseBreak
	KeyboardGraveAccentAndTilde
	Keyboard1
	Keyboard2
	Keyboard3
	Keyboard4
	Keyboard5
	Keyboard6
	Keyboard7
	Keyboard8
	Keyboard9
	Keyboard0
	KeyboardMinusAndUnderscore
	KeyboardEqualsAndPlus
	KeyboardBackspace
	KeyboardInsert
	KeyboardHome
	KeyboardPageUp
	KeyboardNumLock
	KeyboardNumSlash
	KeyboardNumAsterisk
	KeyboardNumMinus
	KeyboardTab
	KeyboardQ
	KeyboardW
	KeyboardE
	KeyboardR
	KeyboardT
	KeyboardY
	KeyboardU
	KeyboardI
	KeyboardO
	KeyboardP
	KeyboardBracketLeft
	KeyboardBracketRight
	KeyboardBackslash
	KeyboardDelete
	KeyboardEnd
	KeyboardPageDown
	KeyboardNum7
	KeyboardNum8
	KeyboardNum9
	KeyboardNumPlus
	KeyboardCapsLock
	KeyboardA
	KeyboardS
	KeyboardD
	KeyboardF
	KeyboardG
	KeyboardH
	KeyboardJ
	KeyboardK
	KeyboardL
	KeyboardSemicolonAndColon
	KeyboardApostropheAndDoubleQuote
	KeyboardNonUsTilde
	KeyboardEnter
	KeyboardNum4
	KeyboardNum5
	KeyboardNum6
	KeyboardLeftShift
	KeyboardNonUsBackslash
	KeyboardZ
	KeyboardX
	KeyboardC
	KeyboardV
	KeyboardB
	KeyboardN
	KeyboardM
	KeyboardCommaAndLessThan
	KeyboardPeriodAndBiggerThan
	KeyboardSlashAndQuestionMark
	KeyboardRightShift
	KeyboardArrowUp
	KeyboardNum1
	KeyboardNum2
	KeyboardNum3
	KeyboardNumEnter
	KeyboardLeftCtrl
	KeyboardLeftGui
	KeyboardLeftAlt
	KeyboardSpace
	KeyboardRightAlt
	KeyboardRightGui
	KeyboardApplication
	KeyboardRightCtrl
	KeyboardArrowLeft
	KeyboardArrowDown
	KeyboardArrowRight
	KeyboardNum0
	KeyboardNumPeriodAndDelete
	KeyboardMediaMute
	KeyboardMediaVolumeDown
	KeyboardMediaVolumeUp
	KeyboardMediaStop
	KeyboardMediaPreviousTrack
	KeyboardMediaPlay
	KeyboardMediaNextTrack
	KeyboardBrightness
	KeyboardWinLock
	KeyboardFunction
	KeyboardMacro1
	KeyboardMacro2
	KeyboardMacro3
	KeyboardMacro4
	KeyboardMacro5
	KeyboardProfile
)

// keyboardCustomBase is the index of Keyboard_Custom1.
const keyboardCustomBase = 513

// KeyboardCustom1 is the first free-form keyboard identifier and the
// fallback starting point for keyboards.
var KeyboardCustom1 = Make(GroupKeyboard, keyboardCustomBase)

var keyboardNames = map[int]string{
	1:   "Escape",
	2:   "F1",
	3:   "F2",
	4:   "F3",
	5:   "F4",
	6:   "F5",
	7:   "F6",
	8:   "F7",
	9:   "F8",
	10:  "F9",
	11:  "F10",
	12:  "F11",
	13:  "F12",
	14:  "PrintScreen",
	15:  "ScrollLock",
	16:  "PauseBreak",
	17:  "GraveAccentAndTilde",
	18:  "1",
	19:  "2",
	20:  "3",
	21:  "4",
	22:  "5",
	23:  "6",
	24:  "7",
	25:  "8",
	26:  "9",
	27:  "0",
	28:  "MinusAndUnderscore",
	29:  "EqualsAndPlus",
	30:  "Backspace",
	31:  "Insert",
	32:  "Home",
	33:  "PageUp",
	34:  "NumLock",
	35:  "NumSlash",
	36:  "NumAsterisk",
	37:  "NumMinus",
	38:  "Tab",
	39:  "Q",
	40:  "W",
	41:  "E",
	42:  "R",
	43:  "T",
	44:  "Y",
	45:  "U",
	46:  "I",
	47:  "O",
	48:  "P",
	49:  "BracketLeft",
	50:  "BracketRight",
	51:  "Backslash",
	52:  "Delete",
	53:  "End",
	54:  "PageDown",
	55:  "Num7",
	56:  "Num8",
	57:  "Num9",
	58:  "NumPlus",
	59:  "CapsLock",
	60:  "A",
	61:  "S",
	62:  "D",
	63:  "F",
	64:  "G",
	65:  "H",
	66:  "J",
	67:  "K",
	68:  "L",
	69:  "SemicolonAndColon",
	70:  "ApostropheAndDoubleQuote",
	71:  "NonUsTilde",
	72:  "Enter",
	73:  "Num4",
	74:  "Num5",
	75:  "Num6",
	76:  "LeftShift",
	77:  "NonUsBackslash",
	78:  "Z",
	79:  "X",
	80:  "C",
	81:  "V",
	82:  "B",
	83:  "N",
	84:  "M",
	85:  "CommaAndLessThan",
	86:  "PeriodAndBiggerThan",
	87:  "SlashAndQuestionMark",
	88:  "RightShift",
	89:  "ArrowUp",
	90:  "Num1",
	91:  "Num2",
	92:  "Num3",
	93:  "NumEnter",
	94:  "LeftCtrl",
	95:  "LeftGui",
	96:  "LeftAlt",
	97:  "Space",
	98:  "RightAlt",
	99:  "RightGui",
	100: "Application",
	101: "RightCtrl",
	102: "ArrowLeft",
	103: "ArrowDown",
	104: "ArrowRight",
	105: "Num0",
	106: "NumPeriodAndDelete",
	107: "MediaMute",
	108: "MediaVolumeDown",
	109: "MediaVolumeUp",
	110: "MediaStop",
	111: "MediaPreviousTrack",
	112: "MediaPlay",
	113: "MediaNextTrack",
	114: "Brightness",
	115: "WinLock",
	116: "Function",
	117: "Macro1",
	118: "Macro2",
	119: "Macro3",
	120: "Macro4",
	121: "Macro5",
	122: "Profile",
}

// namedIDs maps lower-cased canonical names of non-numbered identifiers.
var namedIDs = func() map[string]ID {
	m := make(map[string]ID, len(keyboardNames)+1)
	for idx, name := range keyboardNames {
		m["keyboard_"+strings.ToLower(name)] = Make(GroupKeyboard, idx)
	}
	m["logo"] = Logo
	return m
}()
