package wooting

import "github.com/roxaskeyheart/rgbnet-core/internal/led"

const none = led.Invalid

// twoMatrix is the full-size RGB matrix. The tenkeyless layout is its
// first 17 columns.
var twoMatrix = [][]led.ID{
	{
		led.KeyboardEscape, none, led.KeyboardF1, led.KeyboardF2, led.KeyboardF3, led.KeyboardF4,
		led.KeyboardF5, led.KeyboardF6, led.KeyboardF7, led.KeyboardF8, led.KeyboardF9, led.KeyboardF10,
		led.KeyboardF11, led.KeyboardF12, led.KeyboardPrintScreen, led.KeyboardPauseBreak, led.KeyboardScrollLock,
		led.KeyboardMacro1, led.KeyboardMacro2, led.KeyboardMacro3, led.KeyboardProfile,
	},
	{
		led.KeyboardGraveAccentAndTilde, led.Keyboard1, led.Keyboard2, led.Keyboard3, led.Keyboard4,
		led.Keyboard5, led.Keyboard6, led.Keyboard7, led.Keyboard8, led.Keyboard9, led.Keyboard0,
		led.KeyboardMinusAndUnderscore, led.KeyboardEqualsAndPlus, led.KeyboardBackspace,
		led.KeyboardInsert, led.KeyboardHome, led.KeyboardPageUp,
		led.KeyboardNumLock, led.KeyboardNumSlash, led.KeyboardNumAsterisk, led.KeyboardNumMinus,
	},
	{
		led.KeyboardTab, led.KeyboardQ, led.KeyboardW, led.KeyboardE, led.KeyboardR, led.KeyboardT,
		led.KeyboardY, led.KeyboardU, led.KeyboardI, led.KeyboardO, led.KeyboardP,
		led.KeyboardBracketLeft, led.KeyboardBracketRight, led.KeyboardBackslash,
		led.KeyboardDelete, led.KeyboardEnd, led.KeyboardPageDown,
		led.KeyboardNum7, led.KeyboardNum8, led.KeyboardNum9, led.KeyboardNumPlus,
	},
	{
		led.KeyboardCapsLock, led.KeyboardA, led.KeyboardS, led.KeyboardD, led.KeyboardF, led.KeyboardG,
		led.KeyboardH, led.KeyboardJ, led.KeyboardK, led.KeyboardL, led.KeyboardSemicolonAndColon,
		led.KeyboardApostropheAndDoubleQuote, led.KeyboardNonUsTilde, led.KeyboardEnter,
		none, none, none,
		led.KeyboardNum4, led.KeyboardNum5, led.KeyboardNum6, none,
	},
	{
		led.KeyboardLeftShift, led.KeyboardNonUsBackslash, led.KeyboardZ, led.KeyboardX, led.KeyboardC,
		led.KeyboardV, led.KeyboardB, led.KeyboardN, led.KeyboardM, led.KeyboardCommaAndLessThan,
		led.KeyboardPeriodAndBiggerThan, led.KeyboardSlashAndQuestionMark, none, led.KeyboardRightShift,
		none, led.KeyboardArrowUp, none,
		led.KeyboardNum1, led.KeyboardNum2, led.KeyboardNum3, led.KeyboardNumEnter,
	},
	{
		led.KeyboardLeftCtrl, led.KeyboardLeftGui, led.KeyboardLeftAlt, none, none, none,
		led.KeyboardSpace, none, none, none, led.KeyboardRightAlt, led.KeyboardRightGui,
		led.KeyboardFunction, led.KeyboardRightCtrl,
		led.KeyboardArrowLeft, led.KeyboardArrowDown, led.KeyboardArrowRight,
		none, led.KeyboardNum0, led.KeyboardNumPeriodAndDelete, none,
	},
}

var matrices = map[Model][][]led.ID{
	ModelOne: truncate(twoMatrix, 17),
	ModelTwo: twoMatrix,
}

var modelNames = map[Model]string{
	ModelOne: "Wooting One",
	ModelTwo: "Wooting Two",
}

func truncate(m [][]led.ID, cols int) [][]led.ID {
	out := make([][]led.ID, len(m))
	for i, row := range m {
		out[i] = row[:min(cols, len(row))]
	}
	return out
}
