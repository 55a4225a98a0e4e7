package game

type Rules interface {
	// InitialHeight is the height of every player's starting legion.
	InitialHeight() int
	// MaxHeight is the tallest a legion may grow after the initial split.
	MaxHeight() int
	// Lords are the two creature types of a starting legion that must
	// end up one per half of the initial split.
	Lords() [2]string
}
