package domain

// KeySymbol is a single keypad press as reported by a scanner.
type KeySymbol string

const (
	KeyNone  KeySymbol = ""
	KeyOne   KeySymbol = "1"
	KeyTwo   KeySymbol = "2"
	KeyThree KeySymbol = "3"
	KeyFour  KeySymbol = "4"
)

// DefaultLayout is the 2x2 matrix as wired, indexed [row][column].
var DefaultLayout = [][]KeySymbol{
	{KeyOne, KeyTwo},
	{KeyThree, KeyFour},
}

const (
	DefaultStartKey = KeyOne
	DefaultStopKey  = KeyThree
)

// ParseKeySymbol accepts only symbols present in DefaultLayout.
func ParseKeySymbol(s string) (KeySymbol, bool) {
	for _, row := range DefaultLayout {
		for _, k := range row {
			if string(k) == s {
				return k, true
			}
		}
	}
	return KeyNone, false
}
