package card

// builtinCards are the constant/utility cards that exist in every machine
// without a metadata file. Each has a single OUTPUT pin "A".
var builtinCards = []struct {
	typ, desc string
}{
	{"ONE", "Constant One"},
	{"ZERO", "Constant Zero"},
	{"HIZ", "High Impedance"},
	{"IND", "Indicator"},
	{"RST", "Power On Reset"},
}

// Builtins returns fresh metadata for the built-in cards.
func Builtins() []*CardMeta {
	out := make([]*CardMeta, 0, len(builtinCards))
	for _, b := range builtinCards {
		out = append(out, NewCardMeta(b.typ, b.desc, []PinMeta{
			{ID: "A", Type: PinOutput, Drive: DriveActiveHighPullDown},
		}))
	}
	return out
}
